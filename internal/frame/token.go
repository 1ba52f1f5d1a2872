// Package frame implements the wire contract between the tank transmitter
// and the decoding tools: one telemetry word per frame, carried as a
// hexadecimal token of at most eight digits, with "END" reserved as the
// console termination sentinel.
package frame

import (
	"strings"

	"tankmon/internal/telemetry"
)

// MaxDigits is the longest accepted token; eight hex digits carry a full
// 32-bit telemetry word.
const MaxDigits = 8

// terminator ends an interactive session. Matching is case-insensitive via
// uppercase normalization.
const terminator = "END"

// Classification tells the caller how to treat one raw token.
type Classification int

const (
	// Empty means no characters arrived before the newline; prompt again.
	Empty Classification = iota
	// Terminate means the token was the termination sentinel.
	Terminate
	// Invalid means the token held a non-hexadecimal character or was too
	// long to be a telemetry word; prompt again.
	Invalid
	// Valid means the token is 1..MaxDigits hex digits and can be parsed.
	Valid
)

// String names the classification for logs and metric labels.
func (c Classification) String() string {
	switch c {
	case Empty:
		return "empty"
	case Terminate:
		return "terminate"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// Classify uppercases raw and reports how the decode loop should treat the
// token. It is total: every string classifies somewhere, including tokens
// longer than MaxDigits, which transport peers can produce even though the
// console reader cannot.
func Classify(raw string) (string, Classification) {
	token := strings.ToUpper(raw)
	switch {
	case token == "":
		return token, Empty
	case token == terminator:
		return token, Terminate
	case len(token) > MaxDigits:
		return token, Invalid
	}
	for i := 0; i < len(token); i++ {
		if !isHexDigit(token[i]) {
			return token, Invalid
		}
	}
	return token, Valid
}

// ParseWord interprets a Valid-classified token as base-16. It is total over
// that domain; callers classify first, and ParseWord does not repeat the
// validation.
func ParseWord(token string) telemetry.Word {
	var w uint32
	for i := 0; i < len(token); i++ {
		w = w<<4 | uint32(nibble(token[i]))
	}
	return telemetry.Word(w)
}

// isHexDigit accepts the uppercase alphabet only; Classify normalizes
// before it checks.
func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'F'
}

func nibble(c byte) byte {
	if c >= 'A' {
		return c - 'A' + 10
	}
	return c - '0'
}
