package mux

import (
	"context"
	"errors"
	"time"

	"github.com/1broseidon/tilemux/internal/input"
)

// ErrInputClosed reports that the input stream ended. Run treats it as a
// quit request.
var ErrInputClosed = errors.New("input stream closed")

// EventKind tags an Event.
type EventKind int

const (
	EventKey EventKind = iota
	// EventResize only forces a redraw; the sink reads the new size itself.
	EventResize
	// EventCall runs Call on the loop goroutine.
	EventCall
)

// Event is one item of the input stream.
type Event struct {
	Kind EventKind
	Key  input.Key
	Call func(*Session)
}

// KeyEvent wraps a key press.
func KeyEvent(k input.Key) Event {
	return Event{Kind: EventKey, Key: k}
}

// Executor runs fn on the goroutine that owns a session and returns once fn
// has finished. Frontends hand one to their Controller so code outside the
// loop never touches the session concurrently.
type Executor func(ctx context.Context, fn func(*Session)) error

// Controller is started by a frontend once its loop is ready to run calls.
// The returned function is called when the loop exits.
type Controller func(exec Executor) (stop func())

// CallAndWait wraps fn in an event, hands it to post and waits until the
// loop has run it.
func CallAndWait(ctx context.Context, post func(Event) error, fn func(*Session)) error {
	done := make(chan struct{})
	ev := Event{Kind: EventCall, Call: func(s *Session) {
		defer close(done)
		fn(s)
	}}
	if err := post(ev); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ChannelExecutor returns an Executor that posts calls on events.
func ChannelExecutor(events chan<- Event) Executor {
	return func(ctx context.Context, fn func(*Session)) error {
		return CallAndWait(ctx, func(ev Event) error {
			select {
			case events <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}, fn)
	}
}

// Sink draws the session. Render must only read the session.
type Sink interface {
	Render(s *Session) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(s *Session) error

func (f SinkFunc) Render(s *Session) error { return f(s) }

// Run drives the session until it quits, the input closes, ctx is done, or
// an error occurs. Each iteration renders, then handles whichever comes
// first: the next event or the liveness tick.
func (s *Session) Run(ctx context.Context, events <-chan Event, sink Sink, tick time.Duration) error {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for s.running {
		if err := sink.Render(s); err != nil {
			return err
		}

		ev, err := s.next(ctx, events, ticker.C)
		if errors.Is(err, ErrInputClosed) {
			s.logger.Info("input closed")
			s.Quit()
			return nil
		}
		if err != nil {
			return err
		}
		if ev == nil {
			continue
		}
		switch ev.Kind {
		case EventKey:
			if _, err := s.HandleKey(ev.Key); err != nil {
				return err
			}
		case EventCall:
			if ev.Call != nil {
				ev.Call(s)
			}
			if err := s.Verify(); err != nil {
				return err
			}
		}
	}
	return nil
}

// next waits for an event. A nil event with a nil error means the tick won.
func (s *Session) next(ctx context.Context, events <-chan Event, tick <-chan time.Time) (*Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-events:
		if !ok {
			return nil, ErrInputClosed
		}
		return &ev, nil
	case <-tick:
		return nil, nil
	}
}
