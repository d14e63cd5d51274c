// Package techsupport maps a product category and symptom to a canned
// troubleshooting script. Output is always free text; an unmatched request
// gets a triage question instead of an error.
package techsupport

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/supportline/supportline/agent/contract"
)

type Handler struct {
	engine contractx.ReasoningEngine
}

type Option func(*Handler)

// WithEngine lets the reasoning engine rephrase the canned script. Engine
// failures fall back to the script itself: the answer exists locally, so
// this never becomes HandlerUnavailable.
func WithEngine(engine contractx.ReasoningEngine) Option {
	return func(h *Handler) { h.engine = engine }
}

func New(opts ...Option) *Handler {
	h := &Handler{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

func (h *Handler) Handle(ctx context.Context, req contractx.Request) (contractx.HandlerOutput, error) {
	if err := ctx.Err(); err != nil {
		return contractx.HandlerOutput{}, fmt.Errorf("%w: tech support: %v", contractx.ErrHandlerUnavailable, err)
	}

	matched, ok := match(req.Text)
	if !ok {
		return contractx.TextOutput(triageQuestion), nil
	}

	reply := renderScript(matched)

	if h.engine != nil {
		prompt := fmt.Sprintf(
			"Rephrase this troubleshooting guidance conversationally for a customer who said %q, keeping every step:\n%s",
			req.Text, reply,
		)
		rephrased, err := h.engine.Generate(ctx, prompt)
		if err != nil {
			log.Debug().Err(err).Str("category", matched.Category).Msg("rephrase failed, using canned script")
		} else if strings.TrimSpace(rephrased) != "" {
			reply = strings.TrimSpace(rephrased)
		}
	}

	return contractx.TextOutput(reply), nil
}

func match(text string) (script, bool) {
	lowered := strings.ToLower(text)

	best := -1
	bestScore := 0
	for i, s := range catalog {
		score := 0
		for _, kw := range s.Keywords {
			if strings.Contains(lowered, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return script{}, false
	}
	return catalog[best], true
}

func renderScript(s script) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's how to troubleshoot your %s:\n", s.Category)
	for _, step := range s.Steps {
		b.WriteString("- ")
		b.WriteString(step)
		b.WriteString("\n")
	}
	b.WriteString(escalationNote)
	return b.String()
}
