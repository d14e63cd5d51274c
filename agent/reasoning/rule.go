// Package reasoning hosts the intent classifiers. The dispatcher only
// depends on the IntentClassifier contract; this package provides a
// deterministic keyword classifier and an LLM-backed one.
package reasoning

import (
	"context"
	"strings"

	contractx "github.com/supportline/supportline/agent/contract"
	knowledgex "github.com/supportline/supportline/agent/knowledge"
)

var (
	refundSignals = []string{
		"refund", "money back", "return my", "return this", "return it",
		"cancel my order", "cancel the order",
	}
	orderSignals = []string{
		"order", "track", "tracking", "where is my", "delivery status",
	}
	techSignals = []string{
		"won't", "wont", "not working", "doesn't work", "doesnt work",
		"broken", "troubleshoot", "sticking", "connect", "pair", "sync",
		"charge", "fix",
	}
)

// RuleClassifier classifies on keyword and entity signals alone. It is the
// default classifier and the fallback when the reasoning engine is down.
type RuleClassifier struct {
	knowledge *knowledgex.Base
}

func NewRuleClassifier(kb *knowledgex.Base) *RuleClassifier {
	return &RuleClassifier{knowledge: kb}
}

func (c *RuleClassifier) Classify(ctx context.Context, req contractx.Request) (contractx.Intent, error) {
	if err := ctx.Err(); err != nil {
		return contractx.IntentAmbiguous, err
	}

	lowered := strings.ToLower(req.Text)
	if strings.TrimSpace(lowered) == "" {
		return contractx.IntentAmbiguous, nil
	}

	if containsAny(lowered, refundSignals) {
		return contractx.IntentRefund, nil
	}
	if req.OrderID != "" && strings.Contains(req.Text, req.OrderID) {
		return contractx.IntentOrderLookup, nil
	}
	if containsAny(lowered, orderSignals) {
		return contractx.IntentOrderLookup, nil
	}
	if containsAny(lowered, techSignals) {
		return contractx.IntentTechSupport, nil
	}
	if c.knowledge != nil {
		if _, ok := c.knowledge.Answer(req.Text); ok {
			return contractx.IntentDirect, nil
		}
	}

	return contractx.IntentAmbiguous, nil
}

func containsAny(text string, signals []string) bool {
	for _, s := range signals {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
