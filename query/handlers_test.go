package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-relay/core"
)

type stubStateReader struct {
	ownerFn      func(ctx context.Context) (core.Identity, error)
	pauseStateFn func(ctx context.Context) (bool, error)
}

func (s stubStateReader) Owner(ctx context.Context) (core.Identity, error) {
	if s.ownerFn == nil {
		return "", fmt.Errorf("owner not stubbed")
	}
	return s.ownerFn(ctx)
}

func (s stubStateReader) PauseState(ctx context.Context) (bool, error) {
	if s.pauseStateFn == nil {
		return false, fmt.Errorf("pause state not stubbed")
	}
	return s.pauseStateFn(ctx)
}

type stubLedgerReader struct {
	listFn func(ctx context.Context, filter core.LedgerFilter) (core.LedgerPage, error)
}

func (s stubLedgerReader) ListLedger(ctx context.Context, filter core.LedgerFilter) (core.LedgerPage, error) {
	if s.listFn == nil {
		return core.LedgerPage{}, fmt.Errorf("ledger list not stubbed")
	}
	return s.listFn(ctx, filter)
}

type stubActivityReader struct {
	listFn func(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error)
}

func (s stubActivityReader) List(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error) {
	if s.listFn == nil {
		return core.ActivityPage{}, fmt.Errorf("activity list not stubbed")
	}
	return s.listFn(ctx, filter)
}

func TestGetOwnerQuery_DelegatesToReader(t *testing.T) {
	reader := stubStateReader{
		ownerFn: func(_ context.Context) (core.Identity, error) {
			return "alice", nil
		},
	}
	q := NewGetOwnerQuery(reader)
	owner, err := q.Query(context.Background(), GetOwnerMessage{})
	if err != nil {
		t.Fatalf("query owner: %v", err)
	}
	if owner != "alice" {
		t.Fatalf("expected alice, got %q", owner)
	}
}

func TestGetPauseStateQuery_DelegatesToReader(t *testing.T) {
	reader := stubStateReader{
		pauseStateFn: func(_ context.Context) (bool, error) {
			return true, nil
		},
	}
	q := NewGetPauseStateQuery(reader)
	paused, err := q.Query(context.Background(), GetPauseStateMessage{})
	if err != nil {
		t.Fatalf("query pause state: %v", err)
	}
	if !paused {
		t.Fatalf("expected paused")
	}
}

func TestListLedgerQuery_ForwardsFilter(t *testing.T) {
	reader := stubLedgerReader{
		listFn: func(_ context.Context, filter core.LedgerFilter) (core.LedgerPage, error) {
			if filter.Kind != core.RecordKindTransfer {
				t.Fatalf("unexpected kind filter: %q", filter.Kind)
			}
			if filter.AfterSeq != 3 {
				t.Fatalf("unexpected after seq: %d", filter.AfterSeq)
			}
			return core.LedgerPage{
				Entries: []core.LedgerEntry{{Seq: 4, Kind: core.RecordKindTransfer}},
				Page:    1,
				PerPage: 50,
				Total:   1,
			}, nil
		},
	}
	q := NewListLedgerQuery(reader)
	page, err := q.Query(context.Background(), ListLedgerMessage{Filter: core.LedgerFilter{
		Kind:     core.RecordKindTransfer,
		AfterSeq: 3,
	}})
	if err != nil {
		t.Fatalf("query ledger: %v", err)
	}
	if len(page.Entries) != 1 || page.Entries[0].Seq != 4 {
		t.Fatalf("unexpected page: %#v", page)
	}
}

func TestListActivityQuery_ForwardsFilter(t *testing.T) {
	reader := stubActivityReader{
		listFn: func(_ context.Context, filter core.ActivityFilter) (core.ActivityPage, error) {
			if filter.Operation != "relay" {
				t.Fatalf("unexpected operation filter: %q", filter.Operation)
			}
			return core.ActivityPage{Page: 1, PerPage: 25}, nil
		},
	}
	q := NewListActivityQuery(reader)
	if _, err := q.Query(context.Background(), ListActivityMessage{Filter: core.ActivityFilter{Operation: "relay"}}); err != nil {
		t.Fatalf("query activity: %v", err)
	}
}

func TestQueries_NilReaderReturnsDependencyError(t *testing.T) {
	var ownerQ *GetOwnerQuery
	if _, err := ownerQ.Query(context.Background(), GetOwnerMessage{}); err == nil {
		t.Fatalf("expected dependency error for nil owner query")
	}
	var ledgerQ *ListLedgerQuery
	if _, err := ledgerQ.Query(context.Background(), ListLedgerMessage{}); err == nil {
		t.Fatalf("expected dependency error for nil ledger query")
	}
}

func TestListLedgerMessage_ValidateRejectsUnknownKind(t *testing.T) {
	msg := ListLedgerMessage{Filter: core.LedgerFilter{Kind: "bogus"}}
	if err := msg.Validate(); err == nil {
		t.Fatalf("expected invalid kind error")
	}
}
