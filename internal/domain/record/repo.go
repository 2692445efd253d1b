package record

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the record store the merge layer sits on: a get/put store
// keyed by subject id with an optimistic version check on writes.
type Repository interface {
	// Get loads the record for a subject, or ErrNotFound.
	Get(ctx context.Context, subjectID uuid.UUID) (*Record, error)
	// Put persists r conditionally on r.Version matching the stored
	// version (zero means "no row yet"). On success the repository
	// increments r.Version; on a lost race it returns ErrVersionConflict
	// and leaves the stored row untouched.
	Put(ctx context.Context, r *Record) error
}
