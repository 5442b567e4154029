package bookreview

import (
	"sync"
	"time"
)

// Severity of a notification, matching the alert variants of the screens.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

// Notification is one transient message shown after a mutating action.
type Notification struct {
	Message  string
	Severity Severity
}

// DefaultNotificationTTL matches the 2-second auto-dismiss of the original
// alert component. It is a UI constant, not a correctness contract.
const DefaultNotificationTTL = 2 * time.Second

// Notifier shows at most one notification at a time. Show replaces the
// current one and re-arms the auto-dismiss timer; Dismiss clears it early.
// There is no queue, no delivery guarantee, and nothing survives the
// process.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	sink    func(Notification)
	current *Notification
	timer   *time.Timer
}

// NewNotifier renders each shown notification through sink, which may be
// nil. A non-positive ttl falls back to the default.
func NewNotifier(ttl time.Duration, sink func(Notification)) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl, sink: sink}
}

// Show replaces any current notification with a new one.
func (n *Notifier) Show(message string, severity Severity) {
	note := Notification{Message: message, Severity: severity}

	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.current = &note
	n.timer = time.AfterFunc(n.ttl, n.Dismiss)
	sink := n.sink
	n.mu.Unlock()

	if sink != nil {
		sink(note)
	}
}

// Success shows message with the success severity.
func (n *Notifier) Success(message string) { n.Show(message, SeveritySuccess) }

// Danger shows message with the danger severity.
func (n *Notifier) Danger(message string) { n.Show(message, SeverityDanger) }

// Dismiss clears the current notification, if any.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

// Current reports the active notification, if one is showing.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}
