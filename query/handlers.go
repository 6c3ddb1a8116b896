package query

import (
	"context"

	"github.com/goliatone/go-relay/core"
)

type StateReader interface {
	Owner(ctx context.Context) (core.Identity, error)
	PauseState(ctx context.Context) (bool, error)
}

type LedgerReader interface {
	ListLedger(ctx context.Context, filter core.LedgerFilter) (core.LedgerPage, error)
}

type ActivityReader interface {
	List(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error)
}

type GetOwnerQuery struct {
	reader StateReader
}

func NewGetOwnerQuery(reader StateReader) *GetOwnerQuery {
	return &GetOwnerQuery{reader: reader}
}

func (q *GetOwnerQuery) Query(ctx context.Context, msg GetOwnerMessage) (core.Identity, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: state reader is required")
	}
	return q.reader.Owner(ctx)
}

type GetPauseStateQuery struct {
	reader StateReader
}

func NewGetPauseStateQuery(reader StateReader) *GetPauseStateQuery {
	return &GetPauseStateQuery{reader: reader}
}

func (q *GetPauseStateQuery) Query(ctx context.Context, msg GetPauseStateMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: state reader is required")
	}
	return q.reader.PauseState(ctx)
}

type ListLedgerQuery struct {
	reader LedgerReader
}

func NewListLedgerQuery(reader LedgerReader) *ListLedgerQuery {
	return &ListLedgerQuery{reader: reader}
}

func (q *ListLedgerQuery) Query(ctx context.Context, msg ListLedgerMessage) (core.LedgerPage, error) {
	if q == nil || q.reader == nil {
		return core.LedgerPage{}, queryDependencyError("query: ledger reader is required")
	}
	return q.reader.ListLedger(ctx, msg.Filter)
}

type ListActivityQuery struct {
	reader ActivityReader
}

func NewListActivityQuery(reader ActivityReader) *ListActivityQuery {
	return &ListActivityQuery{reader: reader}
}

func (q *ListActivityQuery) Query(ctx context.Context, msg ListActivityMessage) (core.ActivityPage, error) {
	if q == nil || q.reader == nil {
		return core.ActivityPage{}, queryDependencyError("query: activity reader is required")
	}
	return q.reader.List(ctx, msg.Filter)
}
