package socket

import (
	"errors"
	"fmt"

	"github.com/jacobpatterson1549/trop-dur/game/message"
)

type (
	// Handler handles a message received from the server.
	Handler func(m message.Message)

	// Router calls the one handler registered for the event of each message.
	Router struct {
		handlers map[message.Event]Handler
	}
)

var (
	// ErrDuplicateHandler is returned when a second handler is registered for an event.
	ErrDuplicateHandler = errors.New("handler already registered")
	// ErrUnknownEvent is returned when a message is dispatched for an event with no handler.
	ErrUnknownEvent = errors.New("no handler for event")
)

// NewRouter creates an empty router.
func NewRouter() *Router {
	r := Router{
		handlers: make(map[message.Event]Handler),
	}
	return &r
}

// Handle registers the handler for the event.
func (r *Router) Handle(e message.Event, h Handler) error {
	switch {
	case len(e) == 0:
		return fmt.Errorf("event name required")
	case h == nil:
		return fmt.Errorf("handler required for %v", e)
	}
	if _, ok := r.handlers[e]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateHandler, e)
	}
	r.handlers[e] = h
	return nil
}

// Dispatch calls the handler for the event of the message.
func (r *Router) Dispatch(m message.Message) error {
	h, ok := r.handlers[m.Event]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, m.Event)
	}
	h(m)
	return nil
}
