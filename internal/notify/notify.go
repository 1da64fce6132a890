package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/instrumenta/internal/domain"
)

// Kind distinguishes toasts.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// Toast is one user-visible message.
type Toast struct {
	Kind    Kind
	Message string
	At      time.Time
}

// LogNotifier writes toasts to a logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info("notification", "kind", KindSuccess.String(), "message", message)
}

func (n *LogNotifier) Error(message string) {
	n.logger.Warn("notification", "kind", KindError.String(), "message", message)
}

// DefaultQueueSize bounds a Queue created with size <= 0.
const DefaultQueueSize = 32

// Queue buffers toasts until a UI drains them. When full, the oldest toast
// is dropped.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	size   int
	now    func() time.Time
	signal chan struct{}
}

// NewQueue constructs a Queue holding at most size toasts.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{size: size, now: time.Now, signal: make(chan struct{}, 1)}
}

func (q *Queue) Success(message string) { q.push(KindSuccess, message) }
func (q *Queue) Error(message string)   { q.push(KindError, message) }

func (q *Queue) push(kind Kind, message string) {
	q.mu.Lock()
	q.toasts = append(q.toasts, Toast{Kind: kind, Message: message, At: q.now()})
	if over := len(q.toasts) - q.size; over > 0 {
		q.toasts = append([]Toast(nil), q.toasts[over:]...)
	}
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Drain returns and clears the buffered toasts, oldest first.
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.toasts
	q.toasts = nil
	return out
}

// Ready is signalled after a push; receivers should then Drain.
func (q *Queue) Ready() <-chan struct{} { return q.signal }

// Multi dispatches toasts to several notifiers.
type Multi struct {
	notifiers []domain.Notifier
}

// NewMulti constructs a Multi.
func NewMulti(notifiers ...domain.Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Success(message string) {
	if m == nil {
		return
	}
	for _, n := range m.notifiers {
		if n != nil {
			n.Success(message)
		}
	}
}

func (m *Multi) Error(message string) {
	if m == nil {
		return
	}
	for _, n := range m.notifiers {
		if n != nil {
			n.Error(message)
		}
	}
}

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*Queue)(nil)
	_ domain.Notifier = (*Multi)(nil)
)
