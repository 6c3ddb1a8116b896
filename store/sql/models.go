package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type relayStateRecord struct {
	bun.BaseModel `bun:"table:relay_state,alias:rs"`

	ID        string    `bun:"id,pk"`
	Owner     string    `bun:"owner,notnull"`
	Paused    bool      `bun:"paused,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// relayEventRecord flattens the three ledger record kinds into one table.
// Seq is the database-assigned total order; id is a stable external handle.
type relayEventRecord struct {
	bun.BaseModel `bun:"table:relay_events,alias:re"`

	Seq           int64     `bun:"seq,pk,autoincrement"`
	ID            string    `bun:"id,notnull,unique"`
	Kind          string    `bun:"kind,notnull"`
	FromIdentity  string    `bun:"from_identity"`
	ToIdentity    string    `bun:"to_identity"`
	MessageType   uint64    `bun:"message_type"`
	Data          []byte    `bun:"data"`
	PreviousOwner string    `bun:"previous_owner"`
	NewOwner      string    `bun:"new_owner"`
	IsPaused      *bool     `bun:"is_paused"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type relayActivityRecord struct {
	bun.BaseModel `bun:"table:relay_activity_entries,alias:ra"`

	ID        string         `bun:"id,pk"`
	Operation string         `bun:"operation,notnull"`
	Actor     string         `bun:"actor,notnull"`
	Status    string         `bun:"status,notnull"`
	Error     string         `bun:"error"`
	Metadata  map[string]any `bun:"metadata,type:jsonb,notnull"`
	CreatedAt time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
