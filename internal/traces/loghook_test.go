package traces

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func TestLogHookEmitsRecords(t *testing.T) {
	var buf bytes.Buffer
	exporter, err := stdoutlog.New(stdoutlog.WithWriter(&buf))
	require.NoError(t, err)
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(NewLogHook(provider, "onboarding-test"))

	logger.WithField("workflow_id", "wf_1").Warn("entity creation failed")

	out := buf.String()
	assert.Contains(t, out, "entity creation failed")
	assert.Contains(t, out, "workflow_id")
	assert.Contains(t, out, "wf_1")
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		level logrus.Level
		want  otellog.Severity
	}{
		{logrus.TraceLevel, otellog.SeverityTrace},
		{logrus.DebugLevel, otellog.SeverityDebug},
		{logrus.InfoLevel, otellog.SeverityInfo},
		{logrus.WarnLevel, otellog.SeverityWarn},
		{logrus.ErrorLevel, otellog.SeverityError},
		{logrus.FatalLevel, otellog.SeverityFatal},
		{logrus.PanicLevel, otellog.SeverityFatal},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, severity(tt.level))
		})
	}
}
