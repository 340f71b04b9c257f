package registry

import (
	"errors"
	"sync"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

// ErrNotFound signals that no ticket with the requested id is loaded.
var ErrNotFound = errors.New("ticket not found in registry")

// Registry is the authoritative in-memory ticket collection for the current
// session, ordered newest-first. It is an explicit state container: lifecycle
// operations mutate the tickets it holds in place, and the view layer renders
// from it directly. Concurrent writers race last-write-wins at the store; the
// mutex only keeps the collection itself consistent.
type Registry struct {
	mu      sync.RWMutex
	tickets []*domain.Ticket
	byID    map[string]*domain.Ticket
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[string]*domain.Ticket)}
}

// ReplaceAll swaps the full ticket set, keeping the given order. Used on
// initial hydration from the store and after demo seeding.
func (r *Registry) ReplaceAll(tickets []*domain.Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets = make([]*domain.Ticket, len(tickets))
	copy(r.tickets, tickets)
	r.byID = make(map[string]*domain.Ticket, len(tickets))
	for _, t := range tickets {
		r.byID[t.ID] = t
	}
}

// Insert prepends a ticket; newest-first is the display convention.
func (r *Registry) Insert(ticket *domain.Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets = append([]*domain.Ticket{ticket}, r.tickets...)
	r.byID[ticket.ID] = ticket
}

// FindByID returns the registry-held ticket for id.
func (r *Registry) FindByID(id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ticket, nil
}

// Snapshot returns the tickets in display order. The slice is a copy; the
// tickets themselves are the live registry objects.
func (r *Registry) Snapshot() []*domain.Ticket {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Ticket, len(r.tickets))
	copy(out, r.tickets)
	return out
}

// Len returns the number of loaded tickets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets)
}
