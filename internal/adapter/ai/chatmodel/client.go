package chatmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthsnap-backend/internal/adapter/ai"
	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"

	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultDeepSeekModel = "deepseek-chat"

	defaultMaxTokens = 4096
)

// ErrVisionUnsupported is returned by Extract when the provider cannot read images
var ErrVisionUnsupported = errors.New("provider does not accept image input")

// Client implements domain.Extractor and domain.Analyzer on an eino chat model
type Client struct {
	ChatModel model.BaseChatModel
	Provider  string
	Logger    logrus.FieldLogger

	// Vision reports whether the model accepts image parts
	Vision bool
}

// NewOpenAI creates a client for any OpenAI-compatible endpoint
func NewOpenAI(ctx context.Context, baseURL, apiKey, modelName string, logger logrus.FieldLogger) (*Client, error) {
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}
	maxTokens := defaultMaxTokens
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create openai chat model: %w", err)
	}
	return newClient(chatModel, ProviderOpenAI, true, logger), nil
}

// NewDeepSeek creates a text-only client for the DeepSeek API
func NewDeepSeek(ctx context.Context, apiKey, modelName string, logger logrus.FieldLogger) (*Client, error) {
	if modelName == "" {
		modelName = DefaultDeepSeekModel
	}
	chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create deepseek chat model: %w", err)
	}
	return newClient(chatModel, ProviderDeepSeek, false, logger), nil
}

func newClient(chatModel model.BaseChatModel, provider string, vision bool, logger logrus.FieldLogger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{ChatModel: chatModel, Provider: provider, Vision: vision, Logger: logger}
}

// Extract sends the screenshot as a data URL in a multi-part user message
func (c *Client) Extract(ctx context.Context, image []byte, mimeType string) ([]domain.ExtractedAsset, error) {
	if !c.Vision {
		return nil, fmt.Errorf("%s: %w", c.Provider, ErrVisionUnsupported)
	}

	messages := []*schema.Message{
		{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				{Type: schema.ChatMessagePartTypeText, Text: ai.ExtractionInstruction},
				{
					Type: schema.ChatMessagePartTypeImageURL,
					ImageURL: &schema.ChatMessageImageURL{
						URL:    ai.DataURL(image, mimeType),
						Detail: schema.ImageURLDetailHigh,
					},
				},
			},
		},
	}

	text, err := c.generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	return ai.DecodeExtraction(c.Logger, c.Provider, text), nil
}

// Analyze asks for a narrative analysis of the holdings
func (c *Client) Analyze(ctx context.Context, assets []domain.Asset) (*domain.AnalysisResult, error) {
	messages := []*schema.Message{
		schema.SystemMessage(ai.AnalysisInstruction),
		schema.UserMessage(ai.AnalysisPrompt(assets)),
	}

	text, err := c.generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	return ai.ParseAnalysis(text)
}

func (c *Client) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	resp, err := c.ChatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%s chat model: %w", c.Provider, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%s chat model returned no message", c.Provider)
	}

	entry := c.Logger.WithField("provider", c.Provider)
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		entry = entry.WithFields(logrus.Fields{
			"prompt_tokens":     resp.ResponseMeta.Usage.PromptTokens,
			"completion_tokens": resp.ResponseMeta.Usage.CompletionTokens,
		})
	}
	entry.Debug("chat model response received")

	return strings.TrimSpace(resp.Content), nil
}
