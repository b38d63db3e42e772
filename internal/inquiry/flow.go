package inquiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diagnosis/lighthouse-point/pkg/logger"
	"github.com/diagnosis/lighthouse-point/pkg/metrics"
)

type State int

const (
	StateEditing State = iota
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Mode string

const (
	// ModeOptimistic confirms at once and notifies in the background.
	ModeOptimistic Mode = "optimistic"
	// ModeStrict confirms only after the relay accepted the notification.
	ModeStrict Mode = "strict"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeOptimistic:
		return ModeOptimistic, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("unknown confirm mode %q", s)
	}
}

const DefaultNotifyTimeout = 10 * time.Second

// Notification is what the relay needs to email the guest and the staff.
type Notification struct {
	Reference   string
	Fields      Fields
	RoomName    string
	SubmittedAt time.Time
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

type Confirmation struct {
	FirstName string `json:"firstName"`
	RoomName  string `json:"roomName"`
	Email     string `json:"email"`
}

func (c Confirmation) Message() string {
	return fmt.Sprintf("We'll review availability for %s and contact you at %s within 2 hours to confirm your reservation.", c.RoomName, c.Email)
}

type SubmissionResult struct {
	ReferenceCode string       `json:"referenceCode"`
	Confirmation  Confirmation `json:"confirmation"`
	SubmittedAt   time.Time    `json:"submittedAt"`
}

type Options struct {
	Mode          Mode
	NotifyTimeout time.Duration
	Clock         Clock
	References    *ReferenceGenerator
	// InFlight, when set, also tracks background notifications so a server can drain them.
	InFlight *sync.WaitGroup
}

// Flow moves one draft from editing to a single confirmed submission.
type Flow struct {
	mu       sync.Mutex
	draft    *Draft
	notifier Notifier
	opts     Options

	state   State
	result  *SubmissionResult
	pending Notification

	wg sync.WaitGroup
}

func NewFlow(draft *Draft, notifier Notifier, opts Options) *Flow {
	if opts.Mode == "" {
		opts.Mode = ModeOptimistic
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = DefaultNotifyTimeout
	}
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, Notification) error { return nil })
	}
	return &Flow{
		draft:    draft,
		notifier: notifier,
		opts:     opts,
		state:    StateEditing,
	}
}

func (f *Flow) Draft() *Draft {
	return f.draft
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Result() (SubmissionResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return SubmissionResult{}, false
	}
	return *f.result, true
}

// Submit validates the draft and, when it passes, issues the reference code and
// hands the notification off. A flow confirms at most once. In strict mode a relay
// failure leaves the flow Failed with its reference kept for Retry.
func (f *Flow) Submit(ctx context.Context) (*SubmissionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateConfirmed:
		return nil, ErrAlreadyConfirmed
	case StateFailed:
		return f.retryLocked(ctx)
	}

	if err := f.draft.Validate(Today(f.opts.Clock)); err != nil {
		metrics.InquiriesSubmitted.WithLabelValues("invalid").Inc()
		return nil, err
	}

	fields := f.draft.Fields()
	room, err := f.draft.Catalog().Lookup(fields.SelectedRoomID)
	if err != nil {
		return nil, err
	}

	now := f.opts.Clock.now()
	result := &SubmissionResult{
		ReferenceCode: f.opts.References.Next(),
		Confirmation: Confirmation{
			FirstName: fields.FirstName,
			RoomName:  room.Name,
			Email:     fields.Email,
		},
		SubmittedAt: now,
	}
	f.result = result
	f.pending = Notification{
		Reference:   result.ReferenceCode,
		Fields:      fields,
		RoomName:    room.Name,
		SubmittedAt: now,
	}
	f.draft.freeze()

	ctx = logger.WithReference(ctx, result.ReferenceCode)

	if f.opts.Mode == ModeStrict {
		return f.deliverLocked(ctx)
	}

	f.state = StateConfirmed
	metrics.InquiriesSubmitted.WithLabelValues("confirmed").Inc()
	logger.InfoContext(ctx, "Inquiry confirmed", "room", fields.SelectedRoomID, "mode", string(f.opts.Mode))
	f.dispatch(ctx, f.pending)

	out := *result
	return &out, nil
}

// Retry re-sends the notification of a Failed flow with the same reference.
func (f *Flow) Retry(ctx context.Context) (*SubmissionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.retryLocked(ctx)
}

func (f *Flow) retryLocked(ctx context.Context) (*SubmissionResult, error) {
	if f.state != StateFailed {
		return nil, ErrNotFailed
	}
	return f.deliverLocked(logger.WithReference(ctx, f.result.ReferenceCode))
}

func (f *Flow) deliverLocked(ctx context.Context) (*SubmissionResult, error) {
	notifyCtx, cancel := context.WithTimeout(ctx, f.opts.NotifyTimeout)
	defer cancel()

	out := *f.result
	if err := f.notifier.Notify(notifyCtx, f.pending); err != nil {
		f.state = StateFailed
		metrics.InquiriesSubmitted.WithLabelValues("failed").Inc()
		logger.ErrorContext(ctx, "Inquiry notification failed", "error", err)
		return &out, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	f.state = StateConfirmed
	metrics.InquiriesSubmitted.WithLabelValues("confirmed").Inc()
	logger.InfoContext(ctx, "Inquiry confirmed", "room", f.pending.Fields.SelectedRoomID, "mode", string(f.opts.Mode))
	return &out, nil
}

// dispatch notifies in the background. The request context may end as soon as the
// response is written, so the call runs on a detached context with its own timeout.
func (f *Flow) dispatch(ctx context.Context, n Notification) {
	bg := context.WithoutCancel(ctx)

	f.wg.Add(1)
	if f.opts.InFlight != nil {
		f.opts.InFlight.Add(1)
	}

	go func() {
		defer f.wg.Done()
		if f.opts.InFlight != nil {
			defer f.opts.InFlight.Done()
		}

		notifyCtx, cancel := context.WithTimeout(bg, f.opts.NotifyTimeout)
		defer cancel()

		if err := f.notifier.Notify(notifyCtx, n); err != nil {
			logger.ErrorContext(bg, "Inquiry notification failed", "error", err)
			return
		}
		logger.DebugContext(bg, "Inquiry notification delivered")
	}()
}

// Wait blocks until background notifications started by this flow have finished.
func (f *Flow) Wait() {
	f.wg.Wait()
}
