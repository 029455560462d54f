package notify

import (
	"context"

	"go.uber.org/zap"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a user-facing notification. Calculators stay pure and hand
// notices to a Notifier instead of talking to any UI channel themselves.
type Notice struct {
	Severity Severity
	Title    string
	Message  string
}

//go:generate mockgen -source=notify.go -destination=mock/notify_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

type zapNotifier struct {
	logger *zap.Logger
}

func NewZapNotifier(logger *zap.Logger) Notifier {
	l := zap.L().Named("notify")
	if logger != nil {
		l = logger.Named("notify")
	}
	return &zapNotifier{logger: l}
}

func (n *zapNotifier) Notify(ctx context.Context, notice Notice) {
	fields := []zap.Field{
		zap.String("title", notice.Title),
		zap.String("message", notice.Message),
	}

	switch notice.Severity {
	case SeverityError:
		n.logger.Error("user notice", fields...)
	case SeverityWarning:
		n.logger.Warn("user notice", fields...)
	default:
		n.logger.Info("user notice", fields...)
	}
}

// Nop returns a Notifier that drops every notice. Handy for tests and
// for callers that only care about the returned result.
func Nop() Notifier {
	return nopNotifier{}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}
