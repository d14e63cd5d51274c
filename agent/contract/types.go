package contract

import (
	"regexp"
	"strings"
	"time"
)

// Intent is the classification label the dispatcher acts on. The
// classification algorithm itself lives behind IntentClassifier; the
// dispatcher only ever sees one of these labels per turn.
type Intent string

const (
	IntentDirect      Intent = "direct"
	IntentOrderLookup Intent = "order_lookup"
	IntentRefund      Intent = "refund"
	IntentTechSupport Intent = "tech_support"
	IntentAmbiguous   Intent = "ambiguous"
)

func IsKnownIntent(in Intent) bool {
	switch in {
	case IntentDirect, IntentOrderLookup, IntentRefund, IntentTechSupport, IntentAmbiguous:
		return true
	}
	return false
}

// TurnContext carries the caller-owned slice of prior-turn state that the
// next turn may use for entity resolution ("refund it" after an order
// lookup). Persistence of conversation history stays with the caller.
type TurnContext struct {
	LastIntent  Intent `json:"last_intent,omitempty"`
	LastOrderID string `json:"last_order_id,omitempty"`
}

var orderIDPattern = regexp.MustCompile(`\bORD-\d{4}-\d{3}\b`)

// Request is created once per turn and never mutated afterwards.
type Request struct {
	Text         string       `json:"text"`
	OrderID      string       `json:"order_id,omitempty"`
	CustomerName string       `json:"customer_name,omitempty"`
	ReceivedAt   time.Time    `json:"received_at"`
	Prior        *TurnContext `json:"prior,omitempty"`
}

// NewRequest builds the immutable per-turn request. An order id is taken
// from the text when present, otherwise inherited from the prior turn so a
// follow-up like "refund it" still resolves.
func NewRequest(text string, now time.Time, prior *TurnContext) Request {
	trimmed := strings.TrimSpace(text)

	req := Request{
		Text:       trimmed,
		ReceivedAt: now.UTC(),
		Prior:      prior,
	}

	if id := orderIDPattern.FindString(strings.ToUpper(trimmed)); id != "" {
		req.OrderID = id
	} else if prior != nil {
		req.OrderID = strings.TrimSpace(prior.LastOrderID)
	}

	req.CustomerName = extractQuotedName(trimmed)
	return req
}

// extractQuotedName pulls a customer name written as "..." or '...'.
// Anything fancier belongs to the reasoning engine.
func extractQuotedName(text string) string {
	for _, quote := range []string{`"`, `'`} {
		start := strings.Index(text, quote)
		if start < 0 {
			continue
		}
		rest := text[start+1:]
		end := strings.Index(rest, quote)
		if end <= 0 {
			continue
		}
		return strings.TrimSpace(rest[:end])
	}
	return ""
}

// RecordKind names a structured record type registered with the schema
// registry.
type RecordKind string

const (
	KindOrderInfo    RecordKind = "order_info"
	KindRefundResult RecordKind = "refund_result"
)

// StructuredRecord is implemented by every schema-validated record type.
type StructuredRecord interface {
	Kind() RecordKind
}

// OutputKind tags the two shapes a handler may produce.
type OutputKind int

const (
	OutputFreeText OutputKind = iota
	OutputRecord
)

// HandlerOutput is the tagged union over a structured record and free text.
// The tag drives how the synthesizer renders the final reply; the zero
// value is empty free text.
type HandlerOutput struct {
	kind   OutputKind
	record StructuredRecord
	text   string
}

func RecordOutput(rec StructuredRecord) HandlerOutput {
	return HandlerOutput{kind: OutputRecord, record: rec}
}

func TextOutput(text string) HandlerOutput {
	return HandlerOutput{kind: OutputFreeText, text: text}
}

func (o HandlerOutput) Kind() OutputKind { return o.kind }

// Record returns the structured payload; nil when the output is free text.
func (o HandlerOutput) Record() StructuredRecord { return o.record }

// Text returns the free-text payload; empty when the output is structured.
func (o HandlerOutput) Text() string { return o.text }

func (o HandlerOutput) IsRecord() bool { return o.kind == OutputRecord && o.record != nil }
