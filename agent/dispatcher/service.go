// Package dispatcher routes a customer turn to a direct canned answer or to
// exactly one specialist handler, then renders the result into the reply.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/supportline/supportline/agent/contract"
	knowledgex "github.com/supportline/supportline/agent/knowledge"
	schemax "github.com/supportline/supportline/agent/schema"
	synthx "github.com/supportline/supportline/agent/synthesizer"
)

const (
	apologyUnavailable = "I'm really sorry, I'm having trouble reaching that service right now. Please try again in a moment."
	apologyInternal    = "I'm really sorry, something went wrong while preparing that answer. Please try again."
	clarification      = "I want to make sure I help with the right thing. Could you share a few more details, like your order number or what the product is doing?"
	fallbackDirect     = "I can help with order status, refunds, technical troubleshooting, and general questions about our store."
)

type Agent struct {
	classifiers []contractx.IntentClassifier
	handlers    map[contractx.Intent]contractx.Handler
	knowledge   *knowledgex.Base

	graphRunner compose.Runnable[GraphInput, GraphOutput]

	renderOpts []synthx.Option
	now        func() time.Time
	newTurnID  func() string
}

type Option func(*Agent)

func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		if now != nil {
			a.now = now
		}
	}
}

// WithVerboseReplies includes shipping addresses in order summaries.
func WithVerboseReplies() Option {
	return func(a *Agent) {
		a.renderOpts = append(a.renderOpts, synthx.Verbose())
	}
}

// New wires the dispatcher. Classifiers are tried in order; a later one is
// the fallback when an earlier one errors. Handlers for the three
// specialist intents are all required.
func New(
	kb *knowledgex.Base,
	classifiers []contractx.IntentClassifier,
	handlers map[contractx.Intent]contractx.Handler,
	opts ...Option,
) (*Agent, error) {
	if kb == nil {
		return nil, errors.New("knowledge base is required")
	}
	if len(classifiers) == 0 {
		return nil, errors.New("at least one intent classifier is required")
	}
	for _, intent := range []contractx.Intent{
		contractx.IntentOrderLookup,
		contractx.IntentRefund,
		contractx.IntentTechSupport,
	} {
		if handlers[intent] == nil {
			return nil, fmt.Errorf("handler for intent %q is required", intent)
		}
	}

	a := &Agent{
		classifiers: classifiers,
		handlers:    handlers,
		knowledge:   kb,
		now:         time.Now,
		newTurnID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	runner, err := a.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	a.graphRunner = runner

	return a, nil
}

// ProcessTurn handles one conversation turn and returns the rendered reply.
// Every domain failure resolves into the reply; the only error is an empty
// message.
func (a *Agent) ProcessTurn(ctx context.Context, text string, prior *contractx.TurnContext) (string, error) {
	out, err := a.ProcessTurnDetailed(ctx, text, prior)
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// ProcessTurnDetailed additionally returns the intent and the context for
// the next turn, for callers that keep conversation history.
func (a *Agent) ProcessTurnDetailed(ctx context.Context, text string, prior *contractx.TurnContext) (GraphOutput, error) {
	out, err := a.graphRunner.Invoke(ctx, GraphInput{Text: text, Prior: prior})
	if err != nil {
		return GraphOutput{}, err
	}
	return out, nil
}

func (a *Agent) classifyIntent(ctx context.Context, st *graphState) (*graphState, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}
	st.State = StateClassifying

	for i, classifier := range a.classifiers {
		intent, err := classifier.Classify(ctx, st.Request)
		if err != nil {
			log.Warn().
				Err(err).
				Str("turn_id", st.TurnID).
				Int("classifier", i).
				Msg("classifier failed, trying next")
			continue
		}
		if !contractx.IsKnownIntent(intent) {
			intent = contractx.IntentAmbiguous
		}
		st.Intent = intent
		return st, nil
	}

	// Every classifier failed; asking for clarification still produces a
	// coherent turn.
	st.Intent = contractx.IntentAmbiguous
	return st, nil
}

func (a *Agent) dispatch(ctx context.Context, st *graphState) (*graphState, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}
	st.State = StateDispatched

	switch st.Intent {
	case contractx.IntentDirect:
		answer, ok := a.knowledge.Answer(st.Request.Text)
		if !ok {
			answer = fallbackDirect
		}
		st.Output = contractx.TextOutput(answer)
		return st, nil

	case contractx.IntentAmbiguous:
		// Terminal without side effects: no handler runs.
		st.Output = contractx.TextOutput(clarification)
		return st, nil
	}

	handler := a.handlers[st.Intent]
	if handler == nil {
		log.Error().Str("turn_id", st.TurnID).Str("intent", string(st.Intent)).Msg("no handler mapped")
		st.Output = contractx.TextOutput(apologyInternal)
		return st, nil
	}

	st.HandlerCalls++
	out, err := handler.Handle(ctx, st.Request)
	if err != nil {
		log.Warn().
			Err(err).
			Str("turn_id", st.TurnID).
			Str("intent", string(st.Intent)).
			Msg("handler unavailable")
		st.Output = contractx.TextOutput(apologyUnavailable)
		return st, nil
	}

	if out.IsRecord() {
		if err := schemax.Validate(out.Record()); err != nil {
			var v *schemax.Violation
			ev := log.Error().Err(err).Str("turn_id", st.TurnID).Str("intent", string(st.Intent))
			if errors.As(err, &v) {
				ev = ev.Str("field", v.Field)
			}
			ev.Msg("structured result failed validation")
			st.Output = contractx.TextOutput(apologyInternal)
			return st, nil
		}
	}

	st.Output = out
	return st, nil
}

func (a *Agent) renderReply(st *graphState) (GraphOutput, error) {
	if st == nil {
		return GraphOutput{}, fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}

	reply := synthx.Render(st.Output, a.renderOpts...)
	st.State = StateAnswered

	log.Debug().
		Str("turn_id", st.TurnID).
		Str("intent", string(st.Intent)).
		Int("handler_calls", st.HandlerCalls).
		Msg("turn answered")

	return GraphOutput{
		Reply:   reply,
		Intent:  st.Intent,
		Context: nextContext(st),
	}, nil
}
