package sqlstore

import (
	"context"
	"fmt"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-relay/core"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db *bun.DB

	ledgerStore   *LedgerStore
	stateStore    *RelayStateStore
	activityStore *ActivityStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.ledgerStore != nil && f.stateStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) LedgerStore() core.LedgerStore {
	if f == nil {
		return nil
	}
	return f.ledgerStore
}

func (f *RepositoryFactory) StateStore() core.RelayStateStore {
	if f == nil {
		return nil
	}
	return f.stateStore
}

// AppendAndSave commits a ledger event and the relay state row in one
// database transaction. A failure on either side rolls both back.
func (f *RepositoryFactory) AppendAndSave(
	ctx context.Context,
	entry core.LedgerEntry,
	state core.RelayState,
) (core.LedgerEntry, error) {
	if f == nil || f.db == nil || f.ledgerStore == nil || f.stateStore == nil {
		return core.LedgerEntry{}, fmt.Errorf("sqlstore: repository factory stores are not initialized")
	}
	var stored core.LedgerEntry
	err := f.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		appended, appendErr := f.ledgerStore.AppendTx(ctx, tx, entry)
		if appendErr != nil {
			return appendErr
		}
		stored = appended
		return f.stateStore.SaveTx(ctx, tx, state)
	})
	if err != nil {
		return core.LedgerEntry{}, err
	}
	return stored, nil
}

func (f *RepositoryFactory) ActivitySink() core.ActivitySink {
	if f == nil || f.activityStore == nil {
		return nil
	}
	return f.activityStore
}

func (f *RepositoryFactory) ActivityStore() *ActivityStore {
	if f == nil {
		return nil
	}
	return f.activityStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	ledgerStore, err := NewLedgerStore(f.db)
	if err != nil {
		return err
	}
	f.ledgerStore = ledgerStore
	stateStore, err := NewRelayStateStore(f.db)
	if err != nil {
		return err
	}
	f.stateStore = stateStore
	activityStore, err := NewActivityStore(f.db)
	if err != nil {
		return err
	}
	f.activityStore = activityStore
	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
