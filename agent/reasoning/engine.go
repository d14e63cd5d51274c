package reasoning

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/supportline/supportline/agent/contract"
)

// ModelEngine adapts a chat model to the ReasoningEngine contract used for
// free-text generation (for example rephrasing troubleshooting scripts).
type ModelEngine struct {
	model einomodel.BaseChatModel
}

func NewModelEngine(chatModel einomodel.BaseChatModel) (*ModelEngine, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	return &ModelEngine{model: chatModel}, nil
}

func (e *ModelEngine) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := e.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%w: generate: %v", contractx.ErrHandlerUnavailable, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty generation", contractx.ErrHandlerUnavailable)
	}
	return strings.TrimSpace(msg.Content), nil
}
