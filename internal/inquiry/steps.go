package inquiry

import (
	"sync"
	"sync/atomic"
)

type Step int

const (
	StepDatesGuests Step = 1
	StepRoom        Step = 2
	StepDetails     Step = 3
)

// LookAhead is added to the scroll offset so a section counts as reached
// slightly before its top edge scrolls into view.
const LookAhead = 200

// Anchors are the page offsets of the room and guest-details sections.
// A nil offset means the section is not laid out yet; zero is a real offset.
type Anchors struct {
	Room    *int `json:"room,omitempty"`
	Details *int `json:"details,omitempty"`
}

// Offset returns a laid-out anchor at y.
func Offset(y int) *int {
	return &y
}

// StepFor reports the deepest section whose anchor has been reached.
func StepFor(scrollY int, anchors Anchors) Step {
	return stepFor(scrollY, anchors, LookAhead)
}

func stepFor(scrollY int, anchors Anchors, lookAhead int) Step {
	y := scrollY + lookAhead
	switch {
	case anchors.Details != nil && y >= *anchors.Details:
		return StepDetails
	case anchors.Room != nil && y >= *anchors.Room:
		return StepRoom
	default:
		return StepDatesGuests
	}
}

// ScrollSource delivers scroll offsets to fn until the returned cancel is called.
type ScrollSource interface {
	Subscribe(fn func(scrollY int)) (cancel func())
}

// Tracker keeps the current step for one mounted scroll source.
type Tracker struct {
	anchors   Anchors
	lookAhead int
	step      atomic.Int32

	mu      sync.Mutex
	mounted bool
}

func NewTracker(anchors Anchors) *Tracker {
	return NewTrackerWithLookAhead(anchors, LookAhead)
}

func NewTrackerWithLookAhead(anchors Anchors, lookAhead int) *Tracker {
	t := &Tracker{anchors: anchors, lookAhead: lookAhead}
	t.step.Store(int32(StepDatesGuests))
	return t
}

func (t *Tracker) Step() Step {
	return Step(t.step.Load())
}

func (t *Tracker) observe(scrollY int) {
	t.step.Store(int32(stepFor(scrollY, t.anchors, t.lookAhead)))
}

// Mount subscribes to src. The returned unmount releases the subscription and
// may be called more than once.
func (t *Tracker) Mount(src ScrollSource) (unmount func(), err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mounted {
		return nil, ErrAlreadyMounted
	}
	t.mounted = true

	var live atomic.Bool
	live.Store(true)
	cancel := src.Subscribe(func(scrollY int) {
		if live.Load() {
			t.observe(scrollY)
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			live.Store(false)
			cancel()
			t.mu.Lock()
			t.mounted = false
			t.mu.Unlock()
		})
	}, nil
}

// ChanSource adapts a channel of scroll offsets to a ScrollSource.
type ChanSource struct {
	C <-chan int
}

func (s ChanSource) Subscribe(fn func(scrollY int)) func() {
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		for {
			select {
			case <-done:
				return
			case y, ok := <-s.C:
				if !ok {
					return
				}
				fn(y)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-exited
		})
	}
}
