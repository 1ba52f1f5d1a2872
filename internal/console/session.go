// Package console runs the interactive decode session: it prompts for
// hexadecimal tokens, decodes each telemetry word and prints the decoded
// fields together with any triggered alarms.
package console

import (
	"errors"
	"fmt"
	"io"

	"tankmon/internal/frame"
	"tankmon/internal/telemetry"
)

// State of the decode session. AwaitingInput and Terminated are the resting
// states; the others mark the phase the session moves through while it
// handles one token. Terminated is the only terminal state.
type State int

const (
	AwaitingInput State = iota
	Validating
	Reprompt
	Decoding
	Evaluating
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case Validating:
		return "validating"
	case Reprompt:
		return "reprompt"
	case Decoding:
		return "decoding"
	case Evaluating:
		return "evaluating"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Operator-facing messages.
const (
	prompt        = "Enter the hexadecimal telemetry word (or END to quit): "
	emptyNotice   = "You have entered empty data. Try again."
	invalidNotice = "You have entered wrong data. Use only digits 0-9 and A-F."
	farewell      = "Closing the decoder."
)

// Session is the interactive decode loop, modeled as an explicit state
// machine so the terminal state is testable without console I/O. Each cycle
// owns its token and reading; nothing carries over between cycles.
type Session struct {
	in    *frame.Reader
	out   io.Writer
	state State
}

func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{in: frame.NewReader(in), out: out, state: AwaitingInput}
}

// State reports the state the session currently rests in.
func (s *Session) State() State { return s.state }

// Run drives the session until it terminates: prompt, read one token,
// advance the machine. Malformed input reprompts and never ends the
// session; only the sentinel (or the end of the input stream) does.
func (s *Session) Run() error {
	for s.state != Terminated {
		fmt.Fprint(s.out, prompt)
		raw, err := s.in.ReadToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// A closed input stream ends the session like the sentinel.
				fmt.Fprintln(s.out)
				s.terminate()
				return nil
			}
			return fmt.Errorf("read token: %w", err)
		}
		s.HandleToken(raw)
	}
	return nil
}

// HandleToken advances the machine by one raw token and returns the state
// the session rests in afterwards: Terminated for the sentinel,
// AwaitingInput for everything else.
func (s *Session) HandleToken(raw string) State {
	s.state = Validating
	token, cls := frame.Classify(raw)
	switch cls {
	case frame.Terminate:
		s.terminate()
	case frame.Empty:
		s.reprompt(emptyNotice)
	case frame.Invalid:
		s.reprompt(invalidNotice)
	case frame.Valid:
		s.decode(token)
	}
	return s.state
}

func (s *Session) terminate() {
	s.state = Terminated
	fmt.Fprintln(s.out, farewell)
}

func (s *Session) reprompt(notice string) {
	s.state = Reprompt
	fmt.Fprintln(s.out, notice)
	s.state = AwaitingInput
}

func (s *Session) decode(token string) {
	s.state = Decoding
	word := frame.ParseWord(token)
	reading := telemetry.Decode(word)
	s.state = Evaluating
	alarms := telemetry.Evaluate(reading)
	s.writeReport(token, word, reading, alarms)
	s.state = AwaitingInput
}
