package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-relay/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LedgerStore is the SQL-backed append-only event log. The database assigns
// seq on insert, so the total order is the insert order and survives restarts.
type LedgerStore struct {
	db   *bun.DB
	repo repository.Repository[*relayEventRecord]
}

func NewLedgerStore(db *bun.DB) (*LedgerStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*relayEventRecord](db, eventHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid ledger repository wiring: %w", err)
		}
	}
	return &LedgerStore{db: db, repo: repo}, nil
}

func (s *LedgerStore) Append(ctx context.Context, entry core.LedgerEntry) (core.LedgerEntry, error) {
	if s == nil || s.repo == nil {
		return core.LedgerEntry{}, fmt.Errorf("sqlstore: ledger store is not configured")
	}
	record, err := eventRecordFromEntry(entry)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	return eventRecordToDomain(created), nil
}

// AppendTx appends inside a caller-managed transaction so the event and
// the relay state row commit or roll back together.
func (s *LedgerStore) AppendTx(ctx context.Context, tx bun.Tx, entry core.LedgerEntry) (core.LedgerEntry, error) {
	if s == nil || s.repo == nil {
		return core.LedgerEntry{}, fmt.Errorf("sqlstore: ledger store is not configured")
	}
	record, err := eventRecordFromEntry(entry)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	created, err := s.repo.CreateTx(ctx, tx, record)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	return eventRecordToDomain(created), nil
}

func eventRecordFromEntry(entry core.LedgerEntry) (*relayEventRecord, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	record := &relayEventRecord{
		ID:        id,
		Kind:      string(entry.Kind),
		CreatedAt: createdAt,
	}
	switch entry.Kind {
	case core.RecordKindTransfer:
		record.FromIdentity = entry.Transfer.From.String()
		record.ToIdentity = entry.Transfer.To.String()
		record.MessageType = entry.Transfer.MessageType
		record.Data = append([]byte(nil), entry.Transfer.Data...)
	case core.RecordKindOwnershipChange:
		record.PreviousOwner = entry.Ownership.PreviousOwner.String()
		record.NewOwner = entry.Ownership.NewOwner.String()
	case core.RecordKindPauseState:
		paused := entry.PauseState.IsPaused
		record.IsPaused = &paused
	}
	return record, nil
}

func (s *LedgerStore) ListLedger(ctx context.Context, filter core.LedgerFilter) (core.LedgerPage, error) {
	if s == nil || s.repo == nil {
		return core.LedgerPage{}, fmt.Errorf("sqlstore: ledger store is not configured")
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	offset := (page - 1) * perPage

	selectors := []repository.SelectCriteria{
		repository.OrderBy("seq ASC"),
		repository.SelectPaginate(perPage, offset),
	}
	if kind := strings.TrimSpace(string(filter.Kind)); kind != "" {
		selectors = append(selectors, repository.SelectBy("kind", "=", kind))
	}
	if from := filter.From.String(); from != "" {
		selectors = append(selectors, repository.SelectBy("from_identity", "=", from))
	}
	if filter.AfterSeq > 0 {
		selectors = append(selectors, repository.SelectBy("seq", ">", strconv.FormatInt(filter.AfterSeq, 10)))
	}

	records, total, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return core.LedgerPage{}, err
	}
	entries := make([]core.LedgerEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, eventRecordToDomain(record))
	}
	return core.LedgerPage{
		Entries: entries,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}

func eventRecordToDomain(record *relayEventRecord) core.LedgerEntry {
	if record == nil {
		return core.LedgerEntry{}
	}
	entry := core.LedgerEntry{
		ID:        record.ID,
		Seq:       record.Seq,
		Kind:      core.LedgerRecordKind(record.Kind),
		CreatedAt: record.CreatedAt,
	}
	switch entry.Kind {
	case core.RecordKindTransfer:
		entry.Transfer = &core.TransferRecord{
			From:        core.Identity(record.FromIdentity),
			To:          core.Identity(record.ToIdentity),
			MessageType: record.MessageType,
			Data:        append([]byte(nil), record.Data...),
		}
	case core.RecordKindOwnershipChange:
		entry.Ownership = &core.OwnershipChangeRecord{
			PreviousOwner: core.Identity(record.PreviousOwner),
			NewOwner:      core.Identity(record.NewOwner),
		}
	case core.RecordKindPauseState:
		paused := false
		if record.IsPaused != nil {
			paused = *record.IsPaused
		}
		entry.PauseState = &core.PauseStateRecord{IsPaused: paused}
	}
	return entry
}
