package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

// postgresStore keeps each ticket as a single JSONB document in a collection
// table. Ordering relies on the document's creation timestamp, which the store
// copies into its own column on every write.
type postgresStore struct {
	pool       *pgxpool.Pool
	collection string
}

// NewPostgresStore instantiates the document store adapter.
func NewPostgresStore(pool *pgxpool.Pool, collection string) DocumentStore {
	if collection == "" {
		collection = "tickets"
	}
	return &postgresStore{pool: pool, collection: collection}
}

func (s *postgresStore) Create(ctx context.Context, ticket *domain.Ticket) (string, error) {
	doc, err := json.Marshal(toDocument(ticket))
	if err != nil {
		return "", fmt.Errorf("encode ticket document: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (doc, created_at) VALUES ($1, $2) RETURNING external_id`, s.collection)
	var externalID string
	if err := s.pool.QueryRow(ctx, query, doc, ticket.CreatedAt).Scan(&externalID); err != nil {
		return "", fmt.Errorf("create ticket document: %w", err)
	}
	return externalID, nil
}

func (s *postgresStore) ListAll(ctx context.Context) ([]*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT external_id, doc FROM %s ORDER BY created_at DESC`, s.collection)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ticket documents: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		var externalID string
		var raw []byte
		if err := rows.Scan(&externalID, &raw); err != nil {
			return nil, fmt.Errorf("scan ticket document: %w", err)
		}
		var doc ticketDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode ticket document %s: %w", externalID, err)
		}
		tickets = append(tickets, fromDocument(doc, externalID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ticket documents: %w", err)
	}
	return tickets, nil
}

func (s *postgresStore) Update(ctx context.Context, externalID string, ticket *domain.Ticket) error {
	doc, err := json.Marshal(toDocument(ticket))
	if err != nil {
		return fmt.Errorf("encode ticket document: %w", err)
	}
	query := fmt.Sprintf(`UPDATE %s SET doc=$1 WHERE external_id=$2`, s.collection)
	cmd, err := s.pool.Exec(ctx, query, doc, externalID)
	if err != nil {
		return fmt.Errorf("update ticket document %s: %w", externalID, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, externalID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE external_id=$1`, s.collection)
	cmd, err := s.pool.Exec(ctx, query, externalID)
	if err != nil {
		return fmt.Errorf("delete ticket document %s: %w", externalID, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err denotes a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}
