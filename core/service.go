package core

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Relay is the access-controlled relay: one authorization root (owner +
// pause flag) gating a pure gate-and-emit relay operation. Calls are
// serialized by a mutex held for the call's duration, so precondition
// reads always observe the latest committed state and ledger order
// matches call admission order.
type Relay struct {
	mu sync.Mutex

	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	ledger            LedgerStore
	stateStore        RelayStateStore
	atomicStore       AtomicLedgerStateStore
	activitySink      ActivitySink
	now               func() time.Time

	state RelayState
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	PersistenceClient any
	RepositoryFactory any
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	Ledger            LedgerStore
	StateStore        RelayStateStore
	AtomicStore       AtomicLedgerStateStore
	ActivitySink      ActivitySink
}

// New builds a relay owned by the initializing caller. A state already
// persisted in the configured state store wins over the owner argument,
// so a restarted host resumes the committed owner/paused values.
func New(cfg Config, owner Identity, options ...Option) (*Relay, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("relay", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("relay"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	ledgerFromFactory := false
	stateFromFactory := false
	if (builder.ledger == nil || builder.stateStore == nil) && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			storeProvider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if storeProvider != nil {
				if builder.ledger == nil {
					builder.ledger = storeProvider.LedgerStore()
					ledgerFromFactory = builder.ledger != nil
				}
				if builder.stateStore == nil {
					builder.stateStore = storeProvider.StateStore()
					stateFromFactory = builder.stateStore != nil
				}
			}
		} else if storeProvider, ok := builder.repositoryFactory.(StoreProvider); ok {
			if builder.ledger == nil {
				builder.ledger = storeProvider.LedgerStore()
				ledgerFromFactory = builder.ledger != nil
			}
			if builder.stateStore == nil {
				builder.stateStore = storeProvider.StateStore()
				stateFromFactory = builder.stateStore != nil
			}
		}
	}
	// The factory's transactional unit is only safe when both stores came
	// from that factory; a caller-supplied store would be bypassed by it.
	if builder.atomicStore == nil && ledgerFromFactory && stateFromFactory {
		if atomic, ok := builder.repositoryFactory.(AtomicLedgerStateStore); ok {
			builder.atomicStore = atomic
		}
	}
	if builder.activitySink == nil && builder.repositoryFactory != nil {
		if sinkProvider, ok := builder.repositoryFactory.(interface{ ActivitySink() ActivitySink }); ok {
			builder.activitySink = sinkProvider.ActivitySink()
		}
	}
	if builder.ledger == nil {
		builder.ledger = NewMemoryLedger()
	}
	if builder.stateStore == nil {
		builder.stateStore = NewMemoryStateStore()
	}

	state, found, err := builder.stateStore.Load(context.Background())
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	if !found {
		if owner.IsZero() {
			return nil, mapBuildError(
				builder.errorMapper,
				builder.errorFactory("core: initial owner identity is required", goerrors.CategoryBadInput).
					WithTextCode(RelayErrorInvalidOwner),
			)
		}
		state = RelayState{Owner: owner, Paused: false, UpdatedAt: builder.now()}
		if err := builder.stateStore.Save(context.Background(), state); err != nil {
			return nil, mapBuildError(builder.errorMapper, err)
		}
	}

	return &Relay{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		ledger:            builder.ledger,
		stateStore:        builder.stateStore,
		atomicStore:       builder.atomicStore,
		activitySink:      builder.activitySink,
		now:               builder.now,
		state:             state,
	}, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (r *Relay) Config() Config {
	if r == nil {
		return Config{}
	}
	return r.config
}

func (r *Relay) Dependencies() ServiceDependencies {
	if r == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            r.logger,
		LoggerProvider:    r.loggerProvider,
		MetricsRecorder:   r.metricsRecorder,
		ErrorFactory:      r.errorFactory,
		ErrorMapper:       r.errorMapper,
		PersistenceClient: r.persistenceClient,
		RepositoryFactory: r.repositoryFactory,
		ConfigProvider:    r.configProvider,
		OptionsResolver:   r.optionsResolver,
		Ledger:            r.ledger,
		StateStore:        r.stateStore,
		AtomicStore:       r.atomicStore,
		ActivitySink:      r.activitySink,
	}
}

// Relay gates on the pause flag and, if open, appends exactly one
// transfer record. No state field is mutated; the payload passes through
// untouched.
func (r *Relay) Relay(ctx context.Context, req RelayRequest) (record TransferRecord, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	startedAt := r.nowUTC()
	fields := map[string]any{
		"from":         req.Caller.String(),
		"to":           req.To.String(),
		"message_type": req.MessageType,
		"data_bytes":   len(req.Data),
	}
	// Registered after the lock so activity entries land in admission
	// order, matching the ledger.
	defer func() {
		r.observeOperation(ctx, startedAt, "relay", err, fields)
		r.recordActivity(ctx, "relay", req.Caller, err)
	}()

	if r.state.Paused {
		err = r.mapError(ErrRelayPaused)
		return TransferRecord{}, err
	}

	record = TransferRecord{
		From:        req.Caller,
		To:          req.To,
		MessageType: req.MessageType,
		Data:        copyBytes(req.Data),
	}
	if _, appendErr := r.ledger.Append(ctx, LedgerEntry{
		Kind:      RecordKindTransfer,
		Transfer:  &record,
		CreatedAt: r.nowUTC(),
	}); appendErr != nil {
		err = r.mapError(appendErr)
		return TransferRecord{}, err
	}
	return record, nil
}

// TransferOwnership checks caller ownership first, then the new owner,
// in that order. The record carries the pre-mutation owner, and record
// plus state commit as one unit.
func (r *Relay) TransferOwnership(ctx context.Context, caller Identity, newOwner Identity) (record OwnershipChangeRecord, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	startedAt := r.nowUTC()
	fields := map[string]any{
		"caller":    caller.String(),
		"new_owner": newOwner.String(),
	}
	defer func() {
		r.observeOperation(ctx, startedAt, "transfer_ownership", err, fields)
		r.recordActivity(ctx, "transfer_ownership", caller, err)
	}()

	if !caller.Equal(r.state.Owner) {
		err = r.mapError(ErrNotOwner)
		return OwnershipChangeRecord{}, err
	}
	if newOwner.IsZero() {
		err = r.mapError(ErrInvalidOwner)
		return OwnershipChangeRecord{}, err
	}

	record = OwnershipChangeRecord{
		PreviousOwner: r.state.Owner,
		NewOwner:      newOwner,
	}
	next := RelayState{Owner: newOwner, Paused: r.state.Paused, UpdatedAt: r.nowUTC()}
	if _, commitErr := r.commit(ctx, LedgerEntry{
		Kind:      RecordKindOwnershipChange,
		Ownership: &record,
		CreatedAt: r.nowUTC(),
	}, next); commitErr != nil {
		err = r.mapError(commitErr)
		return OwnershipChangeRecord{}, err
	}
	r.state = next
	return record, nil
}

// TogglePause flips the circuit breaker and appends a record reflecting
// the post-toggle value. Record and state commit as one unit.
func (r *Relay) TogglePause(ctx context.Context, caller Identity) (record PauseStateRecord, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	startedAt := r.nowUTC()
	fields := map[string]any{
		"caller": caller.String(),
	}
	defer func() {
		r.observeOperation(ctx, startedAt, "toggle_pause", err, fields)
		r.recordActivity(ctx, "toggle_pause", caller, err)
	}()

	if !caller.Equal(r.state.Owner) {
		err = r.mapError(ErrNotOwner)
		return PauseStateRecord{}, err
	}

	record = PauseStateRecord{IsPaused: !r.state.Paused}
	fields["is_paused"] = record.IsPaused
	next := RelayState{Owner: r.state.Owner, Paused: record.IsPaused, UpdatedAt: r.nowUTC()}
	if _, commitErr := r.commit(ctx, LedgerEntry{
		Kind:       RecordKindPauseState,
		PauseState: &record,
		CreatedAt:  r.nowUTC(),
	}, next); commitErr != nil {
		err = r.mapError(commitErr)
		return PauseStateRecord{}, err
	}
	r.state = next
	return record, nil
}

// commit makes a ledger append and a state save durable together. With an
// atomic store both writes share one database transaction. Otherwise the
// state is saved first and restored if the append fails, so a call that
// returns an error never leaves a record for a change that did not
// commit. Callers hold the service mutex.
func (r *Relay) commit(ctx context.Context, entry LedgerEntry, next RelayState) (LedgerEntry, error) {
	if err := next.Validate(); err != nil {
		return LedgerEntry{}, err
	}
	if r.atomicStore != nil {
		return r.atomicStore.AppendAndSave(ctx, entry, next)
	}

	if err := r.stateStore.Save(ctx, next); err != nil {
		return LedgerEntry{}, err
	}
	stored, err := r.ledger.Append(ctx, entry)
	if err != nil {
		previous := r.state
		previous.UpdatedAt = r.nowUTC()
		if restoreErr := r.stateStore.Save(ctx, previous); restoreErr != nil {
			r.logError(ctx, "state restore after failed append", map[string]any{
				"error":         restoreErr.Error(),
				"append_error":  err.Error(),
				"restore_owner": previous.Owner.String(),
			})
		}
		return LedgerEntry{}, err
	}
	return stored, nil
}

// Owner exposes the current owner for external inspection. No
// authorization is required to observe it.
func (r *Relay) Owner(ctx context.Context) (Identity, error) {
	if r == nil {
		return ZeroIdentity, relayErrorMapper(goerrors.New("core: relay is not configured", goerrors.CategoryInternal))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Owner, nil
}

// PauseState exposes the current circuit-breaker value.
func (r *Relay) PauseState(ctx context.Context) (bool, error) {
	if r == nil {
		return false, relayErrorMapper(goerrors.New("core: relay is not configured", goerrors.CategoryInternal))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Paused, nil
}

// ListLedger delegates to the configured ledger store.
func (r *Relay) ListLedger(ctx context.Context, filter LedgerFilter) (LedgerPage, error) {
	if r == nil || r.ledger == nil {
		return LedgerPage{}, relayErrorMapper(goerrors.New("core: relay ledger is not configured", goerrors.CategoryInternal))
	}
	page, err := r.ledger.ListLedger(ctx, filter)
	if err != nil {
		return LedgerPage{}, r.mapError(err)
	}
	return page, nil
}

func (r *Relay) mapError(err error) error {
	if err == nil {
		return nil
	}
	if r == nil || r.errorMapper == nil {
		return relayErrorMapper(err)
	}
	mapped := r.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (r *Relay) nowUTC() time.Time {
	if r == nil || r.now == nil {
		return time.Now().UTC()
	}
	return r.now().UTC()
}

func (r *Relay) recordActivity(ctx context.Context, operation string, actor Identity, callErr error) {
	if r == nil || r.activitySink == nil {
		return
	}
	entry := ActivityEntry{
		Operation: operation,
		Actor:     actor,
		Status:    ActivityStatusOK,
		CreatedAt: r.nowUTC(),
	}
	if callErr != nil {
		entry.Status = activityStatusFor(callErr)
		entry.Error = callErr.Error()
	}
	if err := r.activitySink.Record(ctx, entry); err != nil {
		r.logError(ctx, "activity record failed", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
	}
}

func activityStatusFor(err error) ActivityStatus {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.Category {
		case goerrors.CategoryAuthz, goerrors.CategoryAuth, goerrors.CategoryConflict, goerrors.CategoryBadInput, goerrors.CategoryValidation:
			return ActivityStatusRejected
		}
	}
	return ActivityStatusError
}
