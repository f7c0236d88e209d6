package traces

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupOTelSDK(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:4318")

	shutdown, err := SetupOTelSDK(context.Background(), "onboarding-test")
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	_, ok = global.GetLoggerProvider().(*sdklog.LoggerProvider)
	assert.True(t, ok)

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// nothing listens on the endpoint; shutdown must still return
	_ = shutdown(ctx)
}
