package reasoning

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/supportline/supportline/agent/contract"
	schemax "github.com/supportline/supportline/agent/schema"
)

//go:embed template/classifier.txt
var classifierPrompt string

type intentResult struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence,omitempty"`
}

// LLMClassifier asks the reasoning engine for the intent label. The raw
// model response is schema-checked before decoding, so a malformed answer
// surfaces as ErrSchemaViolation rather than a silent misroute.
type LLMClassifier struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func NewLLMClassifier(ctx context.Context, chatModel einomodel.BaseChatModel) (*LLMClassifier, error) {
	runner, err := compileClassifierGraph(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrHandlerUnavailable, err)
	}
	return &LLMClassifier{runner: runner}, nil
}

func (c *LLMClassifier) Classify(ctx context.Context, req contractx.Request) (contractx.Intent, error) {
	payload := map[string]any{
		"text":     req.Text,
		"order_id": req.OrderID,
	}
	if req.Prior != nil {
		payload["prior_intent"] = string(req.Prior.LastIntent)
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.IntentAmbiguous, fmt.Errorf("%w: marshal classifier payload: %v", contractx.ErrValidation, err)
	}

	msg, err := c.runner.Invoke(ctx, map[string]any{"input": string(input)})
	if err != nil {
		return contractx.IntentAmbiguous, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrHandlerUnavailable, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return contractx.IntentAmbiguous, fmt.Errorf("%w: empty classifier response", contractx.ErrSchemaViolation)
	}

	raw := []byte(strings.TrimSpace(msg.Content))
	if err := schemax.ValidateRaw(schemax.DocIntentResult, raw); err != nil {
		return contractx.IntentAmbiguous, err
	}

	var out intentResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return contractx.IntentAmbiguous, fmt.Errorf("%w: decode classifier response: %v", contractx.ErrSchemaViolation, err)
	}

	intent := contractx.Intent(out.Intent)
	if !contractx.IsKnownIntent(intent) {
		return contractx.IntentAmbiguous, fmt.Errorf("%w: unknown intent %q", contractx.ErrSchemaViolation, out.Intent)
	}
	return intent, nil
}

func compileClassifierGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(strings.TrimSpace(classifierPrompt)),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add classifier prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add classifier model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add classifier edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add classifier edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add classifier edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("classifier.intent_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile classifier graph: %w", err)
	}
	return runner, nil
}
