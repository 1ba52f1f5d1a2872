package frame

import (
	"bufio"
	"errors"
	"io"
)

// Reader hands the decode loop one token per call, applying the same
// truncation the transmitter console applies: at most MaxDigits visible
// characters per line, with the rest of the line discarded.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadToken returns the next line truncated to MaxDigits characters, with
// the line terminator stripped. An empty line yields the empty token; each
// call owns its token, nothing is shared between cycles. Once input ends,
// ReadToken returns io.EOF (after first delivering any unterminated final
// token).
func (r *Reader) ReadToken() (string, error) {
	token := make([]byte, 0, MaxDigits)
	for {
		c, err := r.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(token) > 0 {
				return string(token), nil
			}
			return "", err
		}
		switch {
		case c == '\n':
			return string(token), nil
		case c == '\r':
			// CR from Windows consoles is never part of a token.
		case len(token) < MaxDigits:
			token = append(token, c)
		default:
			// Discard everything past MaxDigits up to the newline.
		}
	}
}
