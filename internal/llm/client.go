package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"metria/internal/config"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// Request knobs for maître completions.
const (
	maxTokens             = 500
	temperature   float32 = 0.7
	defaultTimeout        = 60 * time.Second
)

// Completer produces one assistant reply for an ordered message list.
type Completer interface {
	Complete(ctx context.Context, messages []*schema.Message) (string, error)
}

// Client drives the configured chat-completions provider.
type Client struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
}

// New builds the completion client for the provider selected in the maitre
// config section. A missing API key is a hard error so the process refuses to
// start serving chat without credentials.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	provider := cfg.Maitre.Provider
	provCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
	if provCfg.APIKey == "" {
		return nil, fmt.Errorf("api key not configured for provider %s", provider)
	}
	if provCfg.Model == "" {
		return nil, fmt.Errorf("model not configured for provider %s", provider)
	}

	var chatModel model.BaseChatModel
	var err error
	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: maxTokens,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	timeout := time.Duration(cfg.Maitre.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{chatModel: chatModel, timeout: timeout}, nil
}

// Complete runs one completion under the configured timeout and returns the
// reply text.
func (c *Client) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("messages required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.chatModel.Generate(ctx, messages,
		model.WithMaxTokens(maxTokens),
		model.WithTemperature(temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", errors.New("empty completion response")
	}
	return resp.Content, nil
}
