package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"dexray/internal/model"
)

// Category classifies a user-visible notification.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryConnection Category = "connection"
	CategoryExecution  Category = "execution"
)

// Notice is one transient user-visible message.
type Notice struct {
	Category Category  `json:"category"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Notifier collects transient notices in a bounded ring and mirrors them
// to the log. Oldest notices drop first.
type Notifier struct {
	logger *zap.Logger
	max    int

	mu      sync.Mutex
	notices []Notice
}

// NewNotifier builds a notifier keeping at most max notices.
func NewNotifier(max int, logger *zap.Logger) *Notifier {
	if max <= 0 {
		max = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{logger: logger, max: max}
}

// Notify records a message under a category.
func (n *Notifier) Notify(category Category, message string) {
	n.mu.Lock()
	n.notices = append(n.notices, Notice{Category: category, Message: message, At: time.Now()})
	if len(n.notices) > n.max {
		n.notices = n.notices[len(n.notices)-n.max:]
	}
	n.mu.Unlock()

	n.logger.Warn("notice", zap.String("category", string(category)), zap.String("message", message))
}

// NotifyError classifies and records an error.
func (n *Notifier) NotifyError(err error) {
	if err == nil {
		return
	}
	n.Notify(Classify(err), err.Error())
}

// Recent returns the held notices, oldest first.
func (n *Notifier) Recent() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notice, len(n.notices))
	copy(out, n.notices)
	return out
}

// Classify maps an error to a notification category: bad input is a
// validation error, transport and network problems are connection
// errors, everything else surfaced from a submitted call is execution.
func Classify(err error) Category {
	var unsupported *model.UnsupportedNetworkError
	var mismatch *model.ChainMismatchError
	switch {
	case errors.As(err, &unsupported), errors.As(err, &mismatch),
		errors.Is(err, model.ErrPoolNotFound), errors.Is(err, model.ErrTokenNotFound):
		return CategoryValidation
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return CategoryConnection
	default:
		return CategoryExecution
	}
}
