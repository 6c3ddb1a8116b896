package sqlstore

import "github.com/goliatone/go-relay/core"

var (
	_ core.LedgerStore            = (*LedgerStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
	_ core.AtomicLedgerStateStore = (*RepositoryFactory)(nil)
)
