package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
)

// ErrEntityNotFound is returned when the owning row does not exist.
var ErrEntityNotFound = errors.New("entity not found")

// ModeratedStore persists moderation outcomes for one entity table. All
// three moderated tables share the same images / moderation_results /
// is_flagged column shape, so one store serves them all.
type ModeratedStore struct {
	db    *DB
	table string
}

func newModeratedStore(db *DB, table string) *ModeratedStore {
	return &ModeratedStore{db: db, table: table}
}

// AppendImage records an uploaded image path on the owning row. The
// containment guard makes re-queued jobs append-once: a path already in
// the array leaves the row untouched.
func (s *ModeratedStore) AppendImage(ctx context.Context, ownerID int64, imagePath string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET images = images || to_jsonb($2::text), updated_at = NOW()
		WHERE id = $1 AND NOT images ? $2
	`, s.table)

	if _, err := s.db.ExecContext(ctx, query, ownerID, imagePath); err != nil {
		return fmt.Errorf("append image to %s %d: %w", s.table, ownerID, err)
	}
	return nil
}

// UpdateModeration writes the verdict and merges the flag. is_flagged only
// ever moves towards true: a later clean verdict never unflags a row that
// an earlier verdict flagged.
func (s *ModeratedStore) UpdateModeration(ctx context.Context, ownerID int64, verdict models.ModerationVerdict, flagged bool) error {
	payload, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET moderation_results = $2, is_flagged = is_flagged OR $3, updated_at = NOW()
		WHERE id = $1
	`, s.table)

	result, err := s.db.ExecContext(ctx, query, ownerID, payload, flagged)
	if err != nil {
		return fmt.Errorf("update moderation on %s %d: %w", s.table, ownerID, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%w: %s %d", ErrEntityNotFound, s.table, ownerID)
	}
	return nil
}

// Moderation reads the current flag state and stored verdict, nil verdict
// when no pipeline run has completed yet.
func (s *ModeratedStore) Moderation(ctx context.Context, ownerID int64) (bool, *models.ModerationVerdict, error) {
	query := fmt.Sprintf(`SELECT is_flagged, moderation_results FROM %s WHERE id = $1`, s.table)

	var flagged bool
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&flagged, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil, fmt.Errorf("%w: %s %d", ErrEntityNotFound, s.table, ownerID)
	}
	if err != nil {
		return false, nil, fmt.Errorf("read moderation on %s %d: %w", s.table, ownerID, err)
	}

	if len(payload) == 0 {
		return flagged, nil, nil
	}
	var verdict models.ModerationVerdict
	if err := json.Unmarshal(payload, &verdict); err != nil {
		return flagged, nil, fmt.Errorf("decode verdict on %s %d: %w", s.table, ownerID, err)
	}
	return flagged, &verdict, nil
}

// Stores bundles the moderated entity stores keyed by owner kind.
type Stores struct {
	byKind map[models.OwnerKind]*ModeratedStore
}

// NewStores creates the store set over one connection.
func NewStores(db *DB) *Stores {
	return &Stores{
		byKind: map[models.OwnerKind]*ModeratedStore{
			models.OwnerReview:          newModeratedStore(db, "reviews"),
			models.OwnerComment:         newModeratedStore(db, "comments"),
			models.OwnerCheckpointImage: newModeratedStore(db, "checkpoint_images"),
		},
	}
}

// ForKind returns the store for an owner kind, failing closed on kinds
// outside the known set.
func (s *Stores) ForKind(kind models.OwnerKind) (*ModeratedStore, bool) {
	store, ok := s.byKind[kind]
	return store, ok
}
