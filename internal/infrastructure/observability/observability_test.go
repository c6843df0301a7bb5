package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	initLogger(&buf, "chamorro-search-eval", "production")
	defer initLogger(&bytes.Buffer{}, "test", "production")

	log.Info().Str("system", "spread").Msg("evaluated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "chamorro-search-eval", line["service"])
	assert.Equal(t, "spread", line["system"])
	assert.Equal(t, "evaluated", line["message"])
}

func TestLoggerFromContext_NoSpan(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	assert.NotNil(t, logger)
}

func TestMetrics_NoopProvider(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	RecordSearch(ctx, metrics, "ratio", 3*time.Millisecond)
	RecordCacheHit(ctx, metrics, "ratio")
	RecordCacheMiss(ctx, metrics, "ratio")

	// nil metrics are tolerated
	RecordSearch(ctx, nil, "ratio", time.Millisecond)
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test")
	defer span.End()
	RecordError(span, nil)
	assert.NotNil(t, ctx)
}
