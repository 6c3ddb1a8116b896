package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger is a process-local ledger used for tests and hosts without
// a database. Sequence numbers are assigned under the ledger mutex, so
// the stored order is the append order.
type MemoryLedger struct {
	mu      sync.Mutex
	seq     int64
	entries []LedgerEntry
	now     func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (l *MemoryLedger) Append(ctx context.Context, entry LedgerEntry) (LedgerEntry, error) {
	if l == nil {
		return LedgerEntry{}, fmt.Errorf("core: memory ledger is not configured")
	}
	if err := entry.Validate(); err != nil {
		return LedgerEntry{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stored := cloneLedgerEntry(entry)
	l.seq++
	stored.Seq = l.seq
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = l.now().UTC()
	}
	l.entries = append(l.entries, stored)
	return cloneLedgerEntry(stored), nil
}

func (l *MemoryLedger) ListLedger(ctx context.Context, filter LedgerFilter) (LedgerPage, error) {
	if l == nil {
		return LedgerPage{}, fmt.Errorf("core: memory ledger is not configured")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	matched := make([]LedgerEntry, 0, len(l.entries))
	for _, entry := range l.entries {
		if filter.Kind != "" && entry.Kind != filter.Kind {
			continue
		}
		if !filter.From.IsZero() {
			if entry.Transfer == nil || !entry.Transfer.From.Equal(filter.From) {
				continue
			}
		}
		if filter.AfterSeq > 0 && entry.Seq <= filter.AfterSeq {
			continue
		}
		matched = append(matched, entry)
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

	entries := []LedgerEntry{}
	if offset < len(matched) {
		end := offset + perPage
		if end > len(matched) {
			end = len(matched)
		}
		for _, entry := range matched[offset:end] {
			entries = append(entries, cloneLedgerEntry(entry))
		}
	}

	return LedgerPage{
		Entries: entries,
		Page:    page,
		PerPage: perPage,
		Total:   len(matched),
	}, nil
}

var _ LedgerStore = (*MemoryLedger)(nil)
