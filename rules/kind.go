// SPDX-License-Identifier: MIT
package rules

import (
	"fmt"
)

type (
	// Kind is the lexical category of a Rule & of the tokens it produces.
	Kind int
)

// iota is used to define an incrementing number sequence for const
// declarations
const (
	_                  Kind = iota // Consume 0 to start actual numbering at 1.
	Identifier                     // foo, $bar, _baz
	Integer                        // 0, -12
	Float                          // 1.5, -0.25
	SingleQuotedString             // 'a'
	DoubleQuotedString             // "a"
	TemplateString                 // `a`
	Boolean                        // true, false
	Operator                       // + - * / = < > ...
	Separator                      // , . ; : ( ) { } [ ]
	Whitespace                     // Never emitted.
	SingleLineComment              // // ...
	MultiLineComment               // /* ... */
	Invalid                        // Catch-all; never emitted.
)

var kindNames = [...]string{
	Identifier:         "identifier",
	Integer:            "integer",
	Float:              "float",
	SingleQuotedString: "singleQuotedString",
	DoubleQuotedString: "doubleQuotedString",
	TemplateString:     "templateString",
	Boolean:            "boolean",
	Operator:           "operator",
	Separator:          "separator",
	Whitespace:         "whitespace",
	SingleLineComment:  "singleLineComment",
	MultiLineComment:   "multiLineComment",
	Invalid:            "invalid",
}

// String is the `fmt.Stringer` implementation for Kind.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a member of the closed Kind set.
func (k Kind) Valid() bool { return k >= Identifier && k <= Invalid }

// MarshalText implements `encoding.TextMarshaler`.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}

	return []byte(kindNames[k]), nil
}

// UnmarshalText implements `encoding.TextUnmarshaler`.
func (k *Kind) UnmarshalText(text []byte) (err error) {
	*k, err = ParseKind(string(text))
	return
}

// ParseKind obtains the Kind named by name.
func ParseKind(name string) (k Kind, err error) {
	for index := Identifier; index <= Invalid; index++ {
		if kindNames[index] == name {
			k = index
			return
		}
	}
	err = fmt.Errorf("%w: %q", ErrUnknownKind, name)

	return
}
