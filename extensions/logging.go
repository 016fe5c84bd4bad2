package extensions

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-hclog"
)

// HCLogHandler adapts an hclog.Logger into an slog.Handler, so a host
// already standardized on hclog (as the teacher and opentofu-opentofu's
// stack are) can pass its existing logger straight into beacon.WithLogger
// via slog.New(extensions.NewHCLogHandler(l)).
type HCLogHandler struct {
	logger hclog.Logger
}

// NewHCLogHandler wraps logger.
func NewHCLogHandler(logger hclog.Logger) *HCLogHandler {
	return &HCLogHandler{logger: logger}
}

func (h *HCLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.IsTrace() || hclogLevel(level) >= h.logger.GetLevel()
}

func (h *HCLogHandler) Handle(_ context.Context, record slog.Record) error {
	args := make([]any, 0, record.NumAttrs()*2)
	record.Attrs(func(a slog.Attr) bool {
		args = append(args, a.Key, a.Value.Any())
		return true
	})

	switch {
	case record.Level >= slog.LevelError:
		h.logger.Error(record.Message, args...)
	case record.Level >= slog.LevelWarn:
		h.logger.Warn(record.Message, args...)
	case record.Level >= slog.LevelInfo:
		h.logger.Info(record.Message, args...)
	default:
		h.logger.Debug(record.Message, args...)
	}
	return nil
}

func (h *HCLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	args := make([]any, 0, len(attrs)*2)
	for _, a := range attrs {
		args = append(args, a.Key, a.Value.Any())
	}
	return &HCLogHandler{logger: h.logger.With(args...)}
}

func (h *HCLogHandler) WithGroup(name string) slog.Handler {
	return &HCLogHandler{logger: h.logger.Named(name)}
}

func hclogLevel(level slog.Level) hclog.Level {
	switch {
	case level >= slog.LevelError:
		return hclog.Error
	case level >= slog.LevelWarn:
		return hclog.Warn
	case level >= slog.LevelInfo:
		return hclog.Info
	default:
		return hclog.Debug
	}
}
