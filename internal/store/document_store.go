package store

import (
	"context"
	"errors"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

// ErrNotFound signals that an external document id does not reference an
// existing document.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the remote store adapter boundary: four network operations
// against a collection of ticket documents. No retries, no backoff, no
// idempotency keys; every failure is returned to the caller.
type DocumentStore interface {
	// Create persists a new ticket document and returns the store-assigned
	// external identifier.
	Create(ctx context.Context, ticket *domain.Ticket) (string, error)
	// ListAll returns every ticket document ordered by creation time descending.
	ListAll(ctx context.Context) ([]*domain.Ticket, error)
	// Update overwrites the identified document with the given ticket fields.
	Update(ctx context.Context, externalID string, ticket *domain.Ticket) error
	// Delete removes the identified document. Present per the adapter contract;
	// no lifecycle flow exercises it.
	Delete(ctx context.Context, externalID string) error
}
