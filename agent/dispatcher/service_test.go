package dispatcher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/supportline/supportline/agent/contract"
	knowledgex "github.com/supportline/supportline/agent/knowledge"
	schemax "github.com/supportline/supportline/agent/schema"
)

type fakeClassifier struct {
	intent contractx.Intent
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, req contractx.Request) (contractx.Intent, error) {
	f.calls++
	if f.err != nil {
		return contractx.IntentAmbiguous, f.err
	}
	return f.intent, nil
}

type fakeHandler struct {
	out   contractx.HandlerOutput
	err   error
	calls int
}

func (f *fakeHandler) Handle(ctx context.Context, req contractx.Request) (contractx.HandlerOutput, error) {
	f.calls++
	if f.err != nil {
		return contractx.HandlerOutput{}, f.err
	}
	return f.out, nil
}

func loadKB(t *testing.T) *knowledgex.Base {
	t.Helper()

	kb, err := knowledgex.Load()
	if err != nil {
		t.Fatalf("knowledge.Load() error = %v", err)
	}
	return kb
}

func newAgent(t *testing.T, classifier contractx.IntentClassifier, handlers map[contractx.Intent]contractx.Handler) *Agent {
	t.Helper()

	a, err := New(loadKB(t), []contractx.IntentClassifier{classifier}, handlers)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func allHandlers(order, refund, tech contractx.Handler) map[contractx.Intent]contractx.Handler {
	return map[contractx.Intent]contractx.Handler{
		contractx.IntentOrderLookup: order,
		contractx.IntentRefund:      refund,
		contractx.IntentTechSupport: tech,
	}
}

func TestNewRequiresAllSpecialists(t *testing.T) {
	t.Parallel()

	handlers := allHandlers(&fakeHandler{}, nil, &fakeHandler{})
	_, err := New(loadKB(t), []contractx.IntentClassifier{&fakeClassifier{}}, handlers)
	if err == nil {
		t.Fatal("expected error for a missing handler")
	}
}

func TestProcessTurnEmptyMessage(t *testing.T) {
	t.Parallel()

	a := newAgent(t, &fakeClassifier{intent: contractx.IntentDirect},
		allHandlers(&fakeHandler{}, &fakeHandler{}, &fakeHandler{}))

	_, err := a.ProcessTurn(context.Background(), "   ", nil)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestDispatchInvokesExactlyOneHandler(t *testing.T) {
	t.Parallel()

	order := &fakeHandler{out: contractx.RecordOutput(schemax.NotFoundOrder())}
	refund := &fakeHandler{out: contractx.TextOutput("refund")}
	tech := &fakeHandler{out: contractx.TextOutput("tech")}

	a := newAgent(t, &fakeClassifier{intent: contractx.IntentOrderLookup}, allHandlers(order, refund, tech))

	if _, err := a.ProcessTurn(context.Background(), "check my order", nil); err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}

	if order.calls != 1 {
		t.Fatalf("order handler calls = %d, want 1", order.calls)
	}
	if refund.calls != 0 || tech.calls != 0 {
		t.Fatalf("other handlers must not run: refund=%d tech=%d", refund.calls, tech.calls)
	}
}

func TestAmbiguousNeverInvokesHandlers(t *testing.T) {
	t.Parallel()

	order := &fakeHandler{}
	refund := &fakeHandler{}
	tech := &fakeHandler{}

	a := newAgent(t, &fakeClassifier{intent: contractx.IntentAmbiguous}, allHandlers(order, refund, tech))

	reply, err := a.ProcessTurn(context.Background(), "hmm", nil)
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if order.calls+refund.calls+tech.calls != 0 {
		t.Fatal("ambiguous turn must not invoke any handler")
	}
	if !strings.Contains(reply, "more details") {
		t.Fatalf("expected a clarification request, got: %s", reply)
	}
}

func TestHandlerUnavailableBecomesApology(t *testing.T) {
	t.Parallel()

	refund := &fakeHandler{err: contractx.ErrHandlerUnavailable}
	a := newAgent(t, &fakeClassifier{intent: contractx.IntentRefund},
		allHandlers(&fakeHandler{}, refund, &fakeHandler{}))

	reply, err := a.ProcessTurn(context.Background(), "refund please", nil)
	if err != nil {
		t.Fatalf("handler failure must never propagate, got %v", err)
	}
	if !strings.Contains(reply, "trouble reaching") {
		t.Fatalf("expected an apology, got: %s", reply)
	}
}

func TestInvalidStructuredResultBecomesApology(t *testing.T) {
	t.Parallel()

	// Missing refund_id and reason: fails schema validation.
	bad := &fakeHandler{out: contractx.RecordOutput(schemax.RefundResult{OrderID: "ORD-2024-001"})}
	a := newAgent(t, &fakeClassifier{intent: contractx.IntentRefund},
		allHandlers(&fakeHandler{}, bad, &fakeHandler{}))

	reply, err := a.ProcessTurn(context.Background(), "refund please", nil)
	if err != nil {
		t.Fatalf("schema violation must never propagate, got %v", err)
	}
	if !strings.Contains(reply, "something went wrong") {
		t.Fatalf("expected a generic apology, got: %s", reply)
	}
}

func TestDirectAnswerComesFromKnowledgeBase(t *testing.T) {
	t.Parallel()

	a := newAgent(t, &fakeClassifier{intent: contractx.IntentDirect},
		allHandlers(&fakeHandler{}, &fakeHandler{}, &fakeHandler{}))

	reply, err := a.ProcessTurn(context.Background(), "What are your store hours?", nil)
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if !strings.Contains(reply, "9 AM - 6 PM") {
		t.Fatalf("expected the canned hours answer, got: %s", reply)
	}
}

func TestClassifierFallbackChain(t *testing.T) {
	t.Parallel()

	broken := &fakeClassifier{err: errors.New("engine down")}
	working := &fakeClassifier{intent: contractx.IntentTechSupport}
	tech := &fakeHandler{out: contractx.TextOutput("try turning it off and on")}

	a, err := New(loadKB(t),
		[]contractx.IntentClassifier{broken, working},
		allHandlers(&fakeHandler{}, &fakeHandler{}, tech))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := a.ProcessTurn(context.Background(), "my gadget is acting up", nil)
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if broken.calls != 1 || working.calls != 1 {
		t.Fatalf("fallback chain not exercised: broken=%d working=%d", broken.calls, working.calls)
	}
	if !strings.Contains(reply, "turning it off") {
		t.Fatalf("unexpected reply: %s", reply)
	}
}

func TestAllClassifiersFailingMeansClarification(t *testing.T) {
	t.Parallel()

	a := newAgent(t, &fakeClassifier{err: errors.New("engine down")},
		allHandlers(&fakeHandler{}, &fakeHandler{}, &fakeHandler{}))

	reply, err := a.ProcessTurn(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if !strings.Contains(reply, "more details") {
		t.Fatalf("expected clarification, got: %s", reply)
	}
}

func TestNextContextCarriesOrderID(t *testing.T) {
	t.Parallel()

	order := SeedOrderOutput()
	a := newAgent(t, &fakeClassifier{intent: contractx.IntentOrderLookup},
		allHandlers(&fakeHandler{out: order}, &fakeHandler{}, &fakeHandler{}))

	out, err := a.ProcessTurnDetailed(context.Background(), "Check order ORD-2024-001", nil)
	if err != nil {
		t.Fatalf("ProcessTurnDetailed() error = %v", err)
	}
	if out.Context.LastOrderID != "ORD-2024-001" {
		t.Fatalf("context order id = %q", out.Context.LastOrderID)
	}
	if out.Context.LastIntent != contractx.IntentOrderLookup {
		t.Fatalf("context intent = %s", out.Context.LastIntent)
	}
}

// SeedOrderOutput builds a valid structured order output for tests.
func SeedOrderOutput() contractx.HandlerOutput {
	return contractx.RecordOutput(schemax.OrderInfo{
		OrderID:      "ORD-2024-001",
		CustomerName: "John Doe",
		OrderDate:    time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:       schemax.OrderDelivered,
		Items: []schemax.OrderItem{
			{ProductName: "Wireless Headphones", Quantity: 1, UnitPrice: 79.99},
		},
		TotalAmount:    79.99,
		TrackingNumber: "TRK-1234567890",
	})
}
