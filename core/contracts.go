package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// Ledger is the external append-only event log abstraction. Append is the
// terminal, indivisible action of a successful relay call: if it errors,
// the whole call is treated as if it never executed.
type Ledger interface {
	Append(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)
}

type LedgerReader interface {
	ListLedger(ctx context.Context, filter LedgerFilter) (LedgerPage, error)
}

// LedgerStore combines append and list over one totally-ordered log.
type LedgerStore interface {
	Ledger
	LedgerReader
}

// RelayStateStore persists the singleton relay state so a restarted host
// resumes with the committed owner/paused values. Load returns found=false
// when no state has been saved yet.
type RelayStateStore interface {
	Load(ctx context.Context) (RelayState, bool, error)
	Save(ctx context.Context, state RelayState) error
}

// ActivitySink records the operational audit of call attempts, including
// rejections that never reach the canonical ledger.
type ActivitySink interface {
	Record(ctx context.Context, entry ActivityEntry) error
	List(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}

// AtomicLedgerStateStore commits one ledger append and one state save as
// a single unit: either both become durable or neither does.
type AtomicLedgerStateStore interface {
	AppendAndSave(ctx context.Context, entry LedgerEntry, state RelayState) (LedgerEntry, error)
}

type StoreProvider interface {
	LedgerStore() LedgerStore
	StateStore() RelayStateStore
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

type JobExecutionMessage struct {
	JobID          string
	ScriptPath     string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}
