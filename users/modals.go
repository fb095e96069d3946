package users

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Modals keeps the open [Modal]s of all sessions, so a modal survives between the requests that
// render it, update it, and submit it.
// Each modal belongs to an owner (a session), and can only be found again by that owner.
type Modals struct {
	clock   Clock
	log     *slog.Logger
	maxIdle time.Duration
	modals  map[string]*modalEntry
	mu      sync.Mutex
}

type modalEntry struct {
	lastUsed time.Time
	modal    *Modal
	owner    string
}

type NewModalsOptions struct {
	Clock Clock
	Log   *slog.Logger
	// MaxIdle is how long an untouched modal stays open before [Modals.Sweep] closes it, default one hour.
	MaxIdle time.Duration
}

func NewModals(opts NewModalsOptions) *Modals {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}

	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	if opts.MaxIdle == 0 {
		opts.MaxIdle = time.Hour
	}

	return &Modals{
		clock:   opts.Clock,
		log:     opts.Log,
		maxIdle: opts.MaxIdle,
		modals:  map[string]*modalEntry{},
	}
}

type OpenOptions struct {
	Controller *Controller
	OnClose    func(ctx context.Context)
	OnSave     func(ctx context.Context, created json.RawMessage)
	Owner      string
}

// Open a new modal for the owner. Closing the modal removes it from m.
func (m *Modals) Open(opts OpenOptions) *Modal {
	id := uuid.NewString()

	modal := NewModal(NewModalOptions{
		Clock:      m.clock,
		Controller: opts.Controller,
		ID:         id,
		OnClose: func(ctx context.Context) {
			m.remove(id)
			if opts.OnClose != nil {
				opts.OnClose(ctx)
			}
		},
		OnSave: opts.OnSave,
	})

	m.mu.Lock()
	m.modals[id] = &modalEntry{lastUsed: m.clock.Now(), modal: modal, owner: opts.Owner}
	m.mu.Unlock()

	m.log.Debug("Opened modal", "id", id)

	return modal
}

// Get the modal with the given id, if it's open and belongs to owner.
func (m *Modals) Get(owner, id string) (*Modal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.modals[id]
	if !ok || e.owner != owner {
		return nil, false
	}
	e.lastUsed = m.clock.Now()
	return e.modal, true
}

// Len is the number of open modals.
func (m *Modals) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.modals)
}

// Sweep closes modals that have been idle for longer than the max idle time and are not busy submitting.
// A modal that starts submitting right before it's swept closes once the submit is done.
// Returns how many were closed.
func (m *Modals) Sweep(ctx context.Context) int {
	cutoff := m.clock.Now().Add(-m.maxIdle)

	var stale []*Modal
	m.mu.Lock()
	for _, e := range m.modals {
		if e.lastUsed.Before(cutoff) && !e.modal.Busy() {
			stale = append(stale, e.modal)
		}
	}
	m.mu.Unlock()

	// Closing calls back into remove, so it must happen without the lock held
	for _, modal := range stale {
		modal.Close(ctx)
	}

	if len(stale) > 0 {
		m.log.Info("Closed idle modals", "count", len(stale))
	}

	return len(stale)
}

// Start sweeping every interval until ctx is done, then close all remaining modals.
func (m *Modals) Start(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

func (m *Modals) closeAll(ctx context.Context) {
	m.mu.Lock()
	all := make([]*Modal, 0, len(m.modals))
	for _, e := range m.modals {
		all = append(all, e.modal)
	}
	m.mu.Unlock()

	for _, modal := range all {
		modal.Close(ctx)
	}
}

func (m *Modals) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.modals, id)
	m.log.Debug("Removed modal", "id", id)
}
