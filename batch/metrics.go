// SPDX-License-Identifier: MIT
package batch

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gitlab.com/fisherprime/lexscan/lexer"
)

const (
	resultSuccess         = "success"
	resultUnexpectedToken = "unexpected_token"
	resultFailure         = "failure"
)

var (
	metricSourcesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lexscan",
		Subsystem: "batch",
		Name:      "sources_total",
		Help:      "Total number of scanned sources, by result",
	}, []string{"result"})
	metricTokensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lexscan",
		Subsystem: "batch",
		Name:      "tokens_total",
		Help:      "Total number of tokens emitted by successful scans",
	})
)

func observe(results []Result) {
	for index := range results {
		r := &results[index]
		switch {
		case r.Err == nil:
			metricSourcesTotal.WithLabelValues(resultSuccess).Inc()
			metricTokensTotal.Add(float64(len(r.Tokens)))
		case errors.Is(r.Err, lexer.ErrUnexpectedToken):
			metricSourcesTotal.WithLabelValues(resultUnexpectedToken).Inc()
		default:
			metricSourcesTotal.WithLabelValues(resultFailure).Inc()
		}
	}
}
