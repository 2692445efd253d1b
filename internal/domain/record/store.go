package record

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxMergeAttempts bounds the optimistic-concurrency retry loop. Conflicts
// only occur when another process writes the same subject between our read
// and write, so a handful of retries is plenty.
const maxMergeAttempts = 5

// lockStripes sizes the striped lock table. Subjects hash onto a stripe,
// so memory stays fixed no matter how many subjects the process has seen;
// a stripe collision only costs extra serialization, never a lost update,
// because the repository version check still guards every write.
const lockStripes = 64

// Store is the progressive merge store: it owns the read-modify-write
// cycle for a subject's record. Updates for the same subject are
// serialized by a striped lock within the process and by the repository's
// version check across processes; merges for different subjects almost
// always run in parallel.
type Store struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time

	locks [lockStripes]sync.Mutex
}

// NewStore creates a Store over the given repository.
func NewStore(repo Repository, logger zerolog.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the store's clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) subjectLock(subjectID uuid.UUID) *sync.Mutex {
	return &s.locks[binary.BigEndian.Uint32(subjectID[:4])%lockStripes]
}

// Merge applies partial onto the subject's stored record with non-empty-
// wins semantics, creating the record with its mandatory defaults on first
// write, recomputes derived fields, persists, and returns the full merged
// record. Merging the same partial twice yields the same stored record as
// merging it once.
func (s *Store) Merge(ctx context.Context, subjectID uuid.UUID, partial *Record) (*Record, error) {
	if subjectID == uuid.Nil {
		return nil, fmt.Errorf("subject id is required")
	}

	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	now := s.now().UTC()
	for attempt := 1; attempt <= maxMergeAttempts; attempt++ {
		cur, err := s.repo.Get(ctx, subjectID)
		switch {
		case errors.Is(err, ErrNotFound):
			cur = New(subjectID, now)
		case err != nil:
			return nil, fmt.Errorf("load record for %s: %w", subjectID, err)
		}

		applied := ApplyPartial(cur, partial)
		cur.AtualizadoEm = now
		Derive(cur, now)

		if err := s.repo.Put(ctx, cur); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				s.logger.Debug().
					Str("subject_id", subjectID.String()).
					Int("attempt", attempt).
					Msg("merge conflict, retrying")
				continue
			}
			return nil, fmt.Errorf("persist record for %s: %w", subjectID, err)
		}

		s.logger.Info().
			Str("subject_id", subjectID.String()).
			Int("fields_applied", applied).
			Msg("record merged")
		return cur, nil
	}
	return nil, fmt.Errorf("merge record for %s: %w", subjectID, ErrVersionConflict)
}

// Get returns the subject's current record.
func (s *Store) Get(ctx context.Context, subjectID uuid.UUID) (*Record, error) {
	return s.repo.Get(ctx, subjectID)
}

// MarkAlertSent persists the write-once alert dispatch marker. It must be
// called only after the notification dispatcher confirmed at least one
// recipient. Returns ErrAlertAlreadySent if the marker is already set.
func (s *Store) MarkAlertSent(ctx context.Context, subjectID uuid.UUID, at time.Time) (*Record, error) {
	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 1; attempt <= maxMergeAttempts; attempt++ {
		cur, err := s.repo.Get(ctx, subjectID)
		if err != nil {
			return nil, fmt.Errorf("load record for %s: %w", subjectID, err)
		}
		if err := cur.MarkAlertSent(at.UTC()); err != nil {
			return nil, err
		}
		if err := s.repo.Put(ctx, cur); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				continue
			}
			return nil, fmt.Errorf("persist alert marker for %s: %w", subjectID, err)
		}
		return cur, nil
	}
	return nil, fmt.Errorf("mark alert sent for %s: %w", subjectID, ErrVersionConflict)
}
