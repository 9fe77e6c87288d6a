package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthsnap-backend/internal/adapter/chart"
	"github.com/simaogato/wealthsnap-backend/internal/config"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
)

func memoryEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("HISTORY_TOTAL_MODE", "recomputed")
	t.Setenv("EXTRACTION_PROVIDER", "gemini")
	t.Setenv("ANALYSIS_PROVIDER", "gemini")
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("GEMINI_API_KEY", "")
}

func TestFetchImage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	image, err := fetchImage(context.Background(), resty.New(), path)

	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), image)

	_, err = fetchImage(context.Background(), resty.New(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestFetchImage_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/shot.png" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("remote-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	image, err := fetchImage(context.Background(), resty.New(), server.URL+"/shot.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote-bytes"), image)

	_, err = fetchImage(context.Background(), resty.New(), server.URL+"/gone.png")
	assert.Error(t, err)
}

func TestBuildService_Memory(t *testing.T) {
	memoryEnv(t)
	cfg := config.Load()
	logger, _ := test.NewNullLogger()

	svc, closeFn, err := buildService(context.Background(), cfg, logger, nil, false)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, "UTC", svc.Location.String())

	b := &localBackend{svc: svc}
	_, err = b.ImportScreenshot(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, errProvidersDisabled)

	dashboard, err := b.Dashboard(context.Background(), "en")
	require.NoError(t, err)
	assert.Empty(t, dashboard.Assets)

	trend, err := b.Trend(context.Background(), "return")
	require.NoError(t, err)
	assert.Equal(t, metrics.MetricReturnRate, trend.Metric)

	_, err = b.Trend(context.Background(), "volatility")
	assert.ErrorIs(t, err, metrics.ErrInvalidMetric)
}

func TestBuildService_ProvidersNeedKeys(t *testing.T) {
	memoryEnv(t)
	cfg := config.Load()
	logger, _ := test.NewNullLogger()

	_, _, err := buildService(context.Background(), cfg, logger, nil, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := openStore(&config.Config{StoreDriver: "mongo"})
	assert.Error(t, err)
}

func TestRootCmd_Summary(t *testing.T) {
	memoryEnv(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"summary", "--locale", "en"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No holdings yet")
}

func TestRootCmd_ChartWithoutHistory(t *testing.T) {
	memoryEnv(t)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"chart", "-o", filepath.Join(t.TempDir(), "trend.png")})

	err := cmd.Execute()
	assert.ErrorIs(t, err, chart.ErrNoData)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	memoryEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"summary"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}
