package dispatcher

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/supportline/supportline/agent/contract"
	schemax "github.com/supportline/supportline/agent/schema"
)

var ErrEmptyMessage = errors.New("message is empty")

// TurnState tracks where a single turn is in its lifecycle. Turns are
// short-lived; the state exists for logging and for asserting the
// dispatch-once invariant in tests.
type TurnState string

const (
	StateIdle        TurnState = "idle"
	StateClassifying TurnState = "classifying"
	StateDispatched  TurnState = "dispatched"
	StateAnswered    TurnState = "answered"
)

// GraphInput is one inbound turn.
type GraphInput struct {
	Text  string
	Prior *contractx.TurnContext
}

// GraphOutput is the rendered reply plus the context the caller may feed
// into the next turn.
type GraphOutput struct {
	Reply   string
	Intent  contractx.Intent
	Context contractx.TurnContext
}

type graphState struct {
	TurnID  string
	Request contractx.Request
	State   TurnState

	Intent contractx.Intent
	Output contractx.HandlerOutput

	// HandlerCalls counts handler invocations within the turn; it must
	// never exceed one.
	HandlerCalls int
}

func validateRequest(in GraphInput, turnID string, now time.Time) (*graphState, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyMessage
	}

	return &graphState{
		TurnID:  turnID,
		Request: contractx.NewRequest(in.Text, now, in.Prior),
		State:   StateIdle,
	}, nil
}

// nextContext derives the caller-facing context for the following turn.
// A NOT_FOUND id is not worth remembering.
func nextContext(st *graphState) contractx.TurnContext {
	next := contractx.TurnContext{LastIntent: st.Intent}

	if id := recordOrderID(st.Output); id != "" && id != schemax.NotFoundOrderID {
		next.LastOrderID = id
		return next
	}
	next.LastOrderID = st.Request.OrderID
	return next
}

func recordOrderID(out contractx.HandlerOutput) string {
	if !out.IsRecord() {
		return ""
	}
	switch rec := out.Record().(type) {
	case schemax.OrderInfo:
		return rec.OrderID
	case *schemax.OrderInfo:
		return rec.OrderID
	case schemax.RefundResult:
		return rec.OrderID
	case *schemax.RefundResult:
		return rec.OrderID
	}
	return ""
}
