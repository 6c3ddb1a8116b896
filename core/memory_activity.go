package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryActivitySink keeps call-attempt entries in memory, newest last.
// Implements the retention pruner so it can back an OperationalActivitySink
// in tests and database-less hosts.
type MemoryActivitySink struct {
	mu      sync.Mutex
	entries []ActivityEntry
	now     func() time.Time
}

func NewMemoryActivitySink() *MemoryActivitySink {
	return &MemoryActivitySink{
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *MemoryActivitySink) Record(ctx context.Context, entry ActivityEntry) error {
	if s == nil {
		return fmt.Errorf("core: memory activity sink is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	entry.Metadata = copyAnyMap(entry.Metadata)
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryActivitySink) List(ctx context.Context, filter ActivityFilter) (ActivityPage, error) {
	if s == nil {
		return ActivityPage{}, fmt.Errorf("core: memory activity sink is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]ActivityEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter.Operation != "" && entry.Operation != filter.Operation {
			continue
		}
		if !filter.Actor.IsZero() && !entry.Actor.Equal(filter.Actor) {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
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
		perPage = 25
	}
	offset := (page - 1) * perPage

	entries := []ActivityEntry{}
	if offset < len(matched) {
		end := offset + perPage
		if end > len(matched) {
			end = len(matched)
		}
		entries = append(entries, matched[offset:end]...)
	}

	return ActivityPage{
		Entries: entries,
		Page:    page,
		PerPage: perPage,
		Total:   len(matched),
	}, nil
}

func (s *MemoryActivitySink) Prune(ctx context.Context, policy ActivityRetentionPolicy) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("core: memory activity sink is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	if policy.TTL > 0 {
		cutoff := s.now().UTC().Add(-policy.TTL)
		kept := s.entries[:0]
		for _, entry := range s.entries {
			if entry.CreatedAt.Before(cutoff) {
				deleted++
				continue
			}
			kept = append(kept, entry)
		}
		s.entries = kept
	}
	if policy.RowCap > 0 && len(s.entries) > policy.RowCap {
		excess := len(s.entries) - policy.RowCap
		deleted += excess
		s.entries = append([]ActivityEntry(nil), s.entries[excess:]...)
	}
	return deleted, nil
}

var (
	_ ActivitySink            = (*MemoryActivitySink)(nil)
	_ ActivityRetentionPruner = (*MemoryActivitySink)(nil)
)
