// Package oracle talks to the text-generation model that plays the caller
// and rates the caller's state.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/people-person/internal/analysis/health"
	"github.com/zhouzirui/people-person/internal/model/call"
)

// ErrEmptyReply means the model returned no message at all.
var ErrEmptyReply = errors.New("oracle returned no message")

type runnable = compose.Runnable[map[string]any, *schema.Message]

// Client issues one blocking model request per operation.
type Client struct {
	personality runnable
	opening     runnable
	reply       runnable
	assess      runnable
	logger      *zap.Logger
}

// NewClient compiles one chain per operation on top of chatModel.
func NewClient(ctx context.Context, chatModel model.BaseChatModel, logger *zap.Logger) (*Client, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	personality, err := compile(ctx, chatModel,
		schema.SystemMessage(personalitySystemPrompt),
		schema.UserMessage(personalityUserPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile personality chain: %w", err)
	}

	opening, err := compile(ctx, chatModel,
		schema.SystemMessage(openingSystemPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile opening chain: %w", err)
	}

	reply, err := compile(ctx, chatModel,
		schema.SystemMessage(replySystemPrompt),
		schema.UserMessage("{input}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply chain: %w", err)
	}

	assess, err := compile(ctx, chatModel,
		schema.SystemMessage(assessSystemPrompt),
		schema.UserMessage("{input}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile assessment chain: %w", err)
	}

	return &Client{
		personality: personality,
		opening:     opening,
		reply:       reply,
		assess:      assess,
		logger:      logger,
	}, nil
}

func compile(ctx context.Context, chatModel model.BaseChatModel, messages ...schema.MessagesTemplate) (runnable, error) {
	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(prompt.FromMessages(schema.FString, messages...))
	chain.AppendChatModel(chatModel)
	return chain.Compile(ctx)
}

// GeneratePersonality describes a new distressed caller.
func (c *Client) GeneratePersonality(ctx context.Context) (string, error) {
	return c.generate(ctx, "personality", c.personality, map[string]any{})
}

// GenerateOpeningLine produces the caller's first utterance.
func (c *Client) GenerateOpeningLine(ctx context.Context, personality string) (string, error) {
	return c.generate(ctx, "opening", c.opening, map[string]any{
		"personality": personality,
	})
}

// GenerateNextLine produces the caller's answer to the counselor's latest
// input, in character, given everything said so far.
func (c *Client) GenerateNextLine(ctx context.Context, personality string, history call.History, latest string) (string, error) {
	return c.generate(ctx, "reply", c.reply, map[string]any{
		"personality": personality,
		"input":       replyInput(history, latest),
	})
}

// AssessHealth rates the caller on the last few entries of the call. Only
// transport failures are returned; unreadable ratings become health.Neutral.
func (c *Client) AssessHealth(ctx context.Context, history call.History) (int, error) {
	msg, err := c.assess.Invoke(ctx, map[string]any{
		"input": history.Tail(assessWindow).Format(),
	})
	if err != nil {
		return 0, fmt.Errorf("assess health: %w", err)
	}
	if msg == nil {
		c.logger.Warn("assessment returned no message, using neutral score")
		return health.Neutral, nil
	}

	raw := strings.TrimSpace(msg.Content)
	score := health.ParseScore(raw)
	if !strings.ContainsAny(raw, "0123456789") {
		c.logger.Warn("assessment without digits, using neutral score", zap.String("raw", raw))
	}
	c.logger.Debug("assessment", zap.String("raw", raw), zap.Int("score", score))
	return score, nil
}

func (c *Client) generate(ctx context.Context, kind string, chain runnable, input map[string]any) (string, error) {
	msg, err := chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}
	if msg == nil {
		return "", fmt.Errorf("generate %s: %w", kind, ErrEmptyReply)
	}

	text := strings.TrimSpace(msg.Content)
	c.logger.Debug("generated", zap.String("kind", kind), zap.Int("length", len(text)))
	return text, nil
}

// replyInput lists the conversation so far and ends with the counselor's
// latest line. The history already holds that line, so it appears twice.
func replyInput(history call.History, latest string) string {
	return history.Format() + string(call.Counselor) + ": " + latest
}
