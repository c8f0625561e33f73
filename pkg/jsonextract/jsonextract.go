// Package jsonextract recovers structured JSON from free-form model output.
//
// Upstream models are contractually asked for JSON but may wrap it in prose,
// pretty-print it, or emit raw control characters (literal newlines, tabs)
// inside string values without escaping them. Every call site that expects
// JSON from a model goes through this package rather than re-implementing
// extraction and sanitization.
package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoObject indicates that no JSON object could be located in the text.
var ErrNoObject = errors.New("no JSON object found in text")

// ParseError indicates that an extracted object failed to parse even after
// sanitization. It carries the sanitized text for diagnosability.
type ParseError struct {
	Sanitized string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse extracted JSON: %v: %s", e.Err, e.Sanitized)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FirstObject returns the first balanced {...} substring of s. The scan is
// string-aware: braces inside JSON string values do not affect nesting, and
// trailing commentary after the object is ignored.
func FirstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Sanitize escapes known raw control characters (newline, carriage return,
// tab) that appear inside JSON string values and strips any other control
// characters. Control characters between tokens are left alone where they are
// legal whitespace, dropped otherwise.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			if escaped {
				escaped = false
				b.WriteRune(r)
				continue
			}
			switch r {
			case '\\':
				escaped = true
				b.WriteRune(r)
			case '"':
				inString = false
				b.WriteRune(r)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				if r >= 0x20 && r != 0x7f {
					b.WriteRune(r)
				}
			}
			continue
		}

		switch {
		case r == '"':
			inString = true
			b.WriteRune(r)
		case r == '\n', r == '\r', r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			// stray control character between tokens
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unmarshal extracts the first balanced JSON object from text, sanitizes it,
// and unmarshals it into v. Returns ErrNoObject when no object is present and
// a *ParseError when the sanitized object still fails to parse. It never
// returns a partially populated v on error.
func Unmarshal(text string, v interface{}) error {
	raw, ok := FirstObject(text)
	if !ok {
		return ErrNoObject
	}
	clean := Sanitize(raw)
	if err := json.Unmarshal([]byte(clean), v); err != nil {
		return &ParseError{Sanitized: clean, Err: err}
	}
	return nil
}
