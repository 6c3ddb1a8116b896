package query

import (
	"fmt"

	"github.com/goliatone/go-relay/core"
)

const (
	TypeGetOwner      = "relay.query.owner.get"
	TypeGetPauseState = "relay.query.pause.get"
	TypeListLedger    = "relay.query.ledger.list"
	TypeListActivity  = "relay.query.activity.list"
)

type GetOwnerMessage struct{}

func (GetOwnerMessage) Type() string { return TypeGetOwner }

func (GetOwnerMessage) Validate() error { return nil }

type GetPauseStateMessage struct{}

func (GetPauseStateMessage) Type() string { return TypeGetPauseState }

func (GetPauseStateMessage) Validate() error { return nil }

type ListLedgerMessage struct {
	Filter core.LedgerFilter
}

func (ListLedgerMessage) Type() string { return TypeListLedger }

func (m ListLedgerMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	if m.Filter.Kind != "" {
		if err := m.Filter.Kind.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type ListActivityMessage struct {
	Filter core.ActivityFilter
}

func (ListActivityMessage) Type() string { return TypeListActivity }

func (m ListActivityMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	return nil
}
