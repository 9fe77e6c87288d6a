package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// MockGenerator is a mock implementation of generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func TestClient_Extract(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	models := new(MockGenerator)
	client := newClient(models, "", logger)
	image := []byte("\x89PNG\r\n\x1a\nrest")

	models.On("GenerateContent", ctx, DefaultModel, mock.MatchedBy(func(contents []*genai.Content) bool {
		if len(contents) != 1 || len(contents[0].Parts) != 2 {
			return false
		}
		blob := contents[0].Parts[0].InlineData
		return blob != nil && blob.MIMEType == "image/png" && string(blob.Data) == string(image)
	}), mock.MatchedBy(func(config *genai.GenerateContentConfig) bool {
		return config.ResponseMIMEType == "application/json" && config.ResponseSchema == extractionSchema
	})).Return(textResponse(`[{"name":"Fund A","category":"Fund","amount":1200,"returnRate":5}]`), nil)

	records, err := client.Extract(ctx, image, "")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Fund A", records[0].Name)
	assert.True(t, decimal.NewFromInt(1200).Equal(*records[0].Amount))
	models.AssertExpectations(t)
}

func TestClient_Extract_MalformedResponse(t *testing.T) {
	ctx := context.Background()
	logger, hook := test.NewNullLogger()
	models := new(MockGenerator)
	client := newClient(models, "gemini-test", logger)

	models.On("GenerateContent", ctx, "gemini-test", mock.Anything, mock.Anything).
		Return(textResponse("I could not find any holdings."), nil)

	records, err := client.Extract(ctx, []byte("img"), "image/jpeg")

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotEmpty(t, hook.Entries)
}

func TestClient_Extract_CallFailure(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	models := new(MockGenerator)
	client := newClient(models, "", logger)
	callErr := errors.New("quota exceeded")

	models.On("GenerateContent", ctx, DefaultModel, mock.Anything, mock.Anything).Return(nil, callErr)

	records, err := client.Extract(ctx, []byte("img"), "image/png")

	assert.Nil(t, records)
	assert.ErrorIs(t, err, callErr)
}

func TestClient_Analyze(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	models := new(MockGenerator)
	client := newClient(models, "", logger)
	assets := []domain.Asset{
		{ID: uuid.New(), Name: "Fund A", Category: domain.CategoryFund, Amount: decimal.NewFromInt(100), Currency: "CNY", LastUpdated: time.Now()},
	}

	models.On("GenerateContent", ctx, DefaultModel, mock.Anything, mock.MatchedBy(func(config *genai.GenerateContentConfig) bool {
		return config.SystemInstruction != nil && config.ResponseSchema == analysisSchema
	})).Return(textResponse(`{"allocationAnalysis":"All in funds.","investmentAdvice":"Diversify.","adjustmentSuggestions":"Add bonds."}`), nil).Once()

	result, err := client.Analyze(ctx, assets)

	require.NoError(t, err)
	assert.Equal(t, "All in funds.", result.AllocationAnalysis)
	assert.Equal(t, "Diversify.", result.InvestmentAdvice)
	assert.Equal(t, "Add bonds.", result.AdjustmentSuggestions)
	models.AssertExpectations(t)
}

func TestClient_Analyze_InvalidResponse(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	models := new(MockGenerator)
	client := newClient(models, "", logger)

	models.On("GenerateContent", ctx, DefaultModel, mock.Anything, mock.Anything).Return(textResponse(`{}`), nil)

	result, err := client.Analyze(ctx, nil)

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestClient_NilResponse(t *testing.T) {
	ctx := context.Background()
	models := new(MockGenerator)
	client := newClient(models, "", nil)

	models.On("GenerateContent", ctx, DefaultModel, mock.Anything, mock.Anything).Return(nil, nil)

	_, err := client.Analyze(ctx, nil)
	assert.Error(t, err)
}
