package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-relay/core"
	"github.com/uptrace/bun"
)

// relayStateRowID pins the state table to a single logical row per
// deployment.
const relayStateRowID = "00000000-0000-0000-0000-000000000001"

type RelayStateStore struct {
	db *bun.DB
}

func NewRelayStateStore(db *bun.DB) (*RelayStateStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &RelayStateStore{db: db}, nil
}

func (s *RelayStateStore) Load(ctx context.Context) (core.RelayState, bool, error) {
	if s == nil || s.db == nil {
		return core.RelayState{}, false, fmt.Errorf("sqlstore: relay state store is not configured")
	}
	record := &relayStateRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", relayStateRowID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RelayState{}, false, nil
		}
		return core.RelayState{}, false, err
	}
	return core.RelayState{
		Owner:     core.Identity(record.Owner),
		Paused:    record.Paused,
		UpdatedAt: record.UpdatedAt,
	}, true, nil
}

func (s *RelayStateStore) Save(ctx context.Context, state core.RelayState) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: relay state store is not configured")
	}
	return saveRelayState(ctx, s.db, state)
}

// SaveTx upserts the state row inside a caller-managed transaction.
func (s *RelayStateStore) SaveTx(ctx context.Context, tx bun.Tx, state core.RelayState) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: relay state store is not configured")
	}
	return saveRelayState(ctx, tx, state)
}

func saveRelayState(ctx context.Context, idb bun.IDB, state core.RelayState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	updatedAt := state.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	record := &relayStateRecord{
		ID:        relayStateRowID,
		Owner:     state.Owner.String(),
		Paused:    state.Paused,
		UpdatedAt: updatedAt,
	}
	_, err := idb.NewInsert().
		Model(record).
		On("CONFLICT (id) DO UPDATE").
		Set("owner = EXCLUDED.owner").
		Set("paused = EXCLUDED.paused").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

var _ core.RelayStateStore = (*RelayStateStore)(nil)
