package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/simaogato/wealthsnap-backend/internal/adapter/ai"
	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

const providerName = "gemini"

// generator is the subset of *genai.Models the client needs
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements domain.Extractor and domain.Analyzer on the Gemini API
type Client struct {
	Models generator
	Model  string
	Logger logrus.FieldLogger
}

// NewClient creates a Gemini client for the given API key
func NewClient(ctx context.Context, apiKey, model string, logger logrus.FieldLogger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	return newClient(client.Models, model, logger), nil
}

func newClient(models generator, model string, logger logrus.FieldLogger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{Models: models, Model: model, Logger: logger}
}

// extractionSchema constrains the response to an array of holdings
var extractionSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name": {Type: genai.TypeString, Description: "Holding name as displayed"},
			"category": {
				Type: genai.TypeString,
				Enum: []string{"Stock", "Fund", "Bond", "Crypto", "Cash", "Other"},
			},
			"amount":     {Type: genai.TypeNumber, Description: "Current market value"},
			"returnRate": {Type: genai.TypeNumber, Description: "Total return in percent"},
			"currency":   {Type: genai.TypeString, Description: "ISO 4217 code, CNY by default"},
		},
		Required: []string{"name"},
	},
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"allocationAnalysis":    {Type: genai.TypeString},
		"investmentAdvice":      {Type: genai.TypeString},
		"adjustmentSuggestions": {Type: genai.TypeString},
	},
	Required: []string{"allocationAnalysis", "investmentAdvice", "adjustmentSuggestions"},
}

// Extract sends the screenshot with the extraction instruction
func (c *Client) Extract(ctx context.Context, image []byte, mimeType string) ([]domain.ExtractedAsset, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, ai.MIMEType(image, mimeType)),
		genai.NewPartFromText(ai.ExtractionInstruction),
	}

	text, err := c.generate(ctx, parts, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   extractionSchema,
	})
	if err != nil {
		return nil, err
	}

	return ai.DecodeExtraction(c.Logger, providerName, text), nil
}

// Analyze asks for a narrative analysis of the holdings
func (c *Client) Analyze(ctx context.Context, assets []domain.Asset) (*domain.AnalysisResult, error) {
	parts := []*genai.Part{genai.NewPartFromText(ai.AnalysisPrompt(assets))}

	text, err := c.generate(ctx, parts, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(ai.AnalysisInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    analysisSchema,
	})
	if err != nil {
		return nil, err
	}

	return ai.ParseAnalysis(text)
}

func (c *Client) generate(ctx context.Context, parts []*genai.Part, config *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.Models.GenerateContent(ctx, c.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", c.Model, err)
	}
	if resp == nil {
		return "", errors.New("gemini returned no response")
	}

	c.Logger.WithFields(logrus.Fields{
		"provider":   providerName,
		"model":      c.Model,
		"candidates": len(resp.Candidates),
	}).Debug("gemini response received")

	return strings.TrimSpace(resp.Text()), nil
}
