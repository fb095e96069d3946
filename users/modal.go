package users

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/glue-apps/dashboard/model"
)

// Modal is the state behind one create-user form while it's open:
// the [model.Draft], the [ErrorChannel] shown above the fields, and the [Controller] that submits.
//
// The callbacks are called on a successful submit, OnSave first and then OnClose, each exactly once.
// OnClose is also called when the modal is closed without saving.
type Modal struct {
	ID           string
	closeOnce    sync.Once
	closePending bool
	closed       bool
	controller   *Controller
	draft        model.Draft
	errors       *ErrorChannel
	mu           sync.Mutex
	onClose      func(ctx context.Context)
	onSave       func(ctx context.Context, created json.RawMessage)
	submitting   bool
}

type NewModalOptions struct {
	Clock      Clock
	Controller *Controller
	ID         string
	OnClose    func(ctx context.Context)
	OnSave     func(ctx context.Context, created json.RawMessage)
}

func NewModal(opts NewModalOptions) *Modal {
	if opts.OnClose == nil {
		opts.OnClose = func(context.Context) {}
	}

	if opts.OnSave == nil {
		opts.OnSave = func(context.Context, json.RawMessage) {}
	}

	return &Modal{
		ID:         opts.ID,
		controller: opts.Controller,
		errors:     NewErrorChannel(opts.Clock),
		onClose:    opts.OnClose,
		onSave:     opts.OnSave,
	}
}

// SetField of the draft by its form name. See [model.Draft.SetField].
func (m *Modal) SetField(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.draft.SetField(name, value)
}

// Draft being edited, as a copy.
func (m *Modal) Draft() model.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.draft
}

// Busy while a submission is in flight.
func (m *Modal) Busy() bool {
	return m.controller.Busy()
}

// Error currently showing, if any.
func (m *Modal) Error() (string, bool) {
	return m.errors.Message()
}

// ErrorChannel of the modal, for showing and dismissing errors.
func (m *Modal) ErrorChannel() *ErrorChannel {
	return m.errors
}

// Submit the draft. Failures show up in the error channel, except for submits that
// are refused because another is in flight, which leave the error channel to that one.
// On success, the modal calls OnSave and then closes itself.
// A close requested while the submit is in flight happens when it's done, after OnSave if it succeeded.
func (m *Modal) Submit(ctx context.Context) Outcome {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Failure(model.ErrorModalClosed.Error(), model.ErrorModalClosed)
	}
	if m.submitting || m.controller.Busy() {
		m.mu.Unlock()
		return Failure(model.ErrorSubmissionInProgress.Error(), model.ErrorSubmissionInProgress)
	}
	d := m.draft

	if err := model.ValidateDraft(d); err != nil {
		m.mu.Unlock()
		m.errors.Set(err.Error())
		return Failure(err.Error(), err)
	}
	m.submitting = true
	m.mu.Unlock()

	m.errors.Clear()

	o := m.controller.Submit(ctx, d)

	m.mu.Lock()
	m.submitting = false
	closePending := m.closePending
	m.mu.Unlock()

	switch {
	case o.OK():
		m.onSave(ctx, o.Created())
		m.Close(ctx)
	case closePending:
		m.Close(ctx)
	case errors.Is(o.Err(), model.ErrorSubmissionInProgress):
	default:
		m.errors.Set(o.Message())
	}

	return o
}

// Close the modal, discarding the draft and tearing down the error channel, and call OnClose.
// Closing more than once only calls OnClose the first time.
// While a submit is in flight, the close is left to [Modal.Submit] to finish.
func (m *Modal) Close(ctx context.Context) {
	m.mu.Lock()
	if m.submitting {
		m.closePending = true
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.draft = model.Draft{}
		m.mu.Unlock()

		m.errors.Close()
		m.onClose(ctx)
	})
}

// Closed reports whether [Modal.Close] has been called.
func (m *Modal) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}
