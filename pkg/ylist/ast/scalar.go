package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// String returns the scalar text.
func (s *Scalar) String() string {
	return s.Text
}

// IsEmpty returns true for an empty, unquoted scalar (an omitted value).
func (s *Scalar) IsEmpty() bool {
	return s.Text == "" && !s.Quoted
}

// NewBool creates a scalar holding "true" or "false".
func NewBool(v bool) *Scalar {
	return &Scalar{Text: strconv.FormatBool(v)}
}

// NewInt creates a scalar holding v in base 10.
func NewInt(v int64) *Scalar {
	return &Scalar{Text: strconv.FormatInt(v, 10)}
}

// NewFloat creates a scalar holding the shortest representation of v.
func NewFloat(v float64) *Scalar {
	return &Scalar{Text: strconv.FormatFloat(v, 'g', -1, 64)}
}

// Bool interprets the scalar as a boolean. Only true and false, in any
// case, are accepted.
func (s *Scalar) Bool() (bool, error) {
	switch strings.ToLower(s.Text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("scalar %q is not a boolean", s.Text)
}

// Int interprets the scalar as an integer. A "0x" prefix selects
// hexadecimal, anything else is parsed as base 10.
func (s *Scalar) Int() (int64, error) {
	text := s.Text
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		digits := text[2:]
		if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
			return 0, fmt.Errorf("scalar %q is not a hex integer", text)
		}
		v, err := strconv.ParseInt(digits, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("scalar %q is not a hex integer: %w", text, err)
		}
		return v, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("scalar %q is not an integer: %w", text, err)
	}
	return v, nil
}

// Float interprets the scalar as a floating point number.
func (s *Scalar) Float() (float64, error) {
	v, err := strconv.ParseFloat(s.Text, 64)
	if err != nil {
		return 0, fmt.Errorf("scalar %q is not a number: %w", s.Text, err)
	}
	return v, nil
}
