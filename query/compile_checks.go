package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-relay/core"
)

var (
	_ gocmd.Querier[GetOwnerMessage, core.Identity]         = (*GetOwnerQuery)(nil)
	_ gocmd.Querier[GetPauseStateMessage, bool]             = (*GetPauseStateQuery)(nil)
	_ gocmd.Querier[ListLedgerMessage, core.LedgerPage]     = (*ListLedgerQuery)(nil)
	_ gocmd.Querier[ListActivityMessage, core.ActivityPage] = (*ListActivityQuery)(nil)
)
