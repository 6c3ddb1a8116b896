package relay

import "github.com/goliatone/go-relay/core"

type Config = core.Config

type ActivityConfig = core.ActivityConfig

type Option = core.Option

type Relay = core.Relay

type ServiceDependencies = core.ServiceDependencies
type Identity = core.Identity
type RelayState = core.RelayState
type Ledger = core.Ledger
type LedgerStore = core.LedgerStore
type RelayStateStore = core.RelayStateStore
type AtomicLedgerStateStore = core.AtomicLedgerStateStore
type ActivitySink = core.ActivitySink

type RelayRequest = core.RelayRequest
type TransferRecord = core.TransferRecord
type OwnershipChangeRecord = core.OwnershipChangeRecord
type PauseStateRecord = core.PauseStateRecord

type LedgerEntry = core.LedgerEntry
type LedgerFilter = core.LedgerFilter
type LedgerPage = core.LedgerPage
type ActivityEntry = core.ActivityEntry
type ActivityFilter = core.ActivityFilter
type ActivityPage = core.ActivityPage

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithLedger            = core.WithLedger
	WithStateStore        = core.WithStateStore
	WithAtomicStore       = core.WithAtomicStore
	WithActivitySink      = core.WithActivitySink
	WithClock             = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func New(cfg Config, owner Identity, opts ...Option) (*Relay, error) {
	return core.New(cfg, owner, opts...)
}
