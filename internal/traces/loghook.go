package traces

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

// LogHook forwards logrus entries to an OpenTelemetry logger, so log records carry the trace
// context of the entry when one is attached with logrus.WithContext.
type LogHook struct {
	logger otellog.Logger
}

// NewLogHook returns a hook emitting to provider, or to the global logger provider when nil.
func NewLogHook(provider otellog.LoggerProvider, name string) *LogHook {
	if provider == nil {
		provider = global.GetLoggerProvider()
	}
	return &LogHook{logger: provider.Logger(name)}
}

func (h *LogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *LogHook) Fire(entry *logrus.Entry) error {
	var record otellog.Record
	record.SetTimestamp(entry.Time)
	record.SetSeverity(severity(entry.Level))
	record.SetSeverityText(entry.Level.String())
	record.SetBody(otellog.StringValue(entry.Message))
	for k, v := range entry.Data {
		record.AddAttributes(otellog.String(k, fmt.Sprint(v)))
	}

	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}
	h.logger.Emit(ctx, record)
	return nil
}

func severity(level logrus.Level) otellog.Severity {
	switch level {
	case logrus.TraceLevel:
		return otellog.SeverityTrace
	case logrus.DebugLevel:
		return otellog.SeverityDebug
	case logrus.InfoLevel:
		return otellog.SeverityInfo
	case logrus.WarnLevel:
		return otellog.SeverityWarn
	case logrus.ErrorLevel:
		return otellog.SeverityError
	default:
		return otellog.SeverityFatal
	}
}
