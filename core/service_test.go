package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func testClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTestRelay(t *testing.T, owner Identity, options ...Option) *Relay {
	t.Helper()
	service, err := New(DefaultConfig(), owner, options...)
	if err != nil {
		t.Fatalf("new relay: %v", err)
	}
	return service
}

func TestNewRequiresInitialOwner(t *testing.T) {
	_, err := New(DefaultConfig(), ZeroIdentity)
	if err == nil {
		t.Fatalf("expected zero initial owner to be rejected")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected rich error, got %T", err)
	}
	if richErr.TextCode != RelayErrorInvalidOwner {
		t.Fatalf("expected text code %q, got %q", RelayErrorInvalidOwner, richErr.TextCode)
	}

	_, err = New(DefaultConfig(), Identity("0x0000000000000000000000000000000000000000"))
	if err == nil {
		t.Fatalf("expected all-zero hex owner to be rejected")
	}
}

func TestNewPersistsInitialState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()
	service := newTestRelay(t, Identity("alice"), WithStateStore(store))

	owner, err := service.Owner(ctx)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if owner != Identity("alice") {
		t.Fatalf("expected owner alice, got %q", owner)
	}

	state, found, err := store.Load(ctx)
	if err != nil || !found {
		t.Fatalf("expected initial state to be persisted, found=%v err=%v", found, err)
	}
	if state.Owner != Identity("alice") || state.Paused {
		t.Fatalf("unexpected persisted state %+v", state)
	}
}

func TestNewResumesPersistedStateOverOwnerArgument(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	first := newTestRelay(t, Identity("alice"), WithStateStore(store))
	if _, err := first.TransferOwnership(ctx, Identity("alice"), Identity("bob")); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	if _, err := first.TogglePause(ctx, Identity("bob")); err != nil {
		t.Fatalf("toggle pause: %v", err)
	}

	restarted := newTestRelay(t, Identity("mallory"), WithStateStore(store))
	owner, err := restarted.Owner(ctx)
	if err != nil {
		t.Fatalf("owner after restart: %v", err)
	}
	if owner != Identity("bob") {
		t.Fatalf("expected committed owner bob to win over constructor argument, got %q", owner)
	}
	paused, err := restarted.PauseState(ctx)
	if err != nil {
		t.Fatalf("pause state after restart: %v", err)
	}
	if !paused {
		t.Fatalf("expected committed paused flag to survive restart")
	}
}

func TestRelayAppendsExactlyOneTransferRecord(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	service := newTestRelay(t, Identity("alice"), WithLedger(ledger))

	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	record, err := service.Relay(ctx, RelayRequest{
		Caller:      Identity("carol"),
		To:          Identity("dave"),
		MessageType: 42,
		Data:        payload,
	})
	if err != nil {
		t.Fatalf("relay: %v", err)
	}
	if record.From != Identity("carol") || record.To != Identity("dave") {
		t.Fatalf("unexpected transfer endpoints %+v", record)
	}
	if record.MessageType != 42 {
		t.Fatalf("expected message type 42, got %d", record.MessageType)
	}
	if string(record.Data) != string(payload) {
		t.Fatalf("expected payload to pass through untouched")
	}

	page, err := ledger.ListLedger(ctx, LedgerFilter{})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if page.Total != 1 || len(page.Entries) != 1 {
		t.Fatalf("expected exactly one ledger entry, got total=%d", page.Total)
	}
	entry := page.Entries[0]
	if entry.Kind != RecordKindTransfer || entry.Transfer == nil {
		t.Fatalf("expected a transfer entry, got %+v", entry)
	}
	if entry.Seq != 1 {
		t.Fatalf("expected first sequence number 1, got %d", entry.Seq)
	}
}

func TestRelayDoesNotValidateRecipient(t *testing.T) {
	ctx := context.Background()
	service := newTestRelay(t, Identity("alice"))

	record, err := service.Relay(ctx, RelayRequest{Caller: Identity("carol")})
	if err != nil {
		t.Fatalf("expected zero recipient to be accepted, got %v", err)
	}
	if !record.To.IsZero() {
		t.Fatalf("expected zero recipient to pass through, got %q", record.To)
	}
	if record.Data != nil {
		t.Fatalf("expected nil payload to stay nil")
	}
}

func TestRelayRejectedWhilePaused(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	service := newTestRelay(t, Identity("alice"), WithLedger(ledger))

	if _, err := service.TogglePause(ctx, Identity("alice")); err != nil {
		t.Fatalf("toggle pause: %v", err)
	}

	_, err := service.Relay(ctx, RelayRequest{Caller: Identity("carol")})
	if !errors.Is(err, ErrRelayPaused) {
		t.Fatalf("expected ErrRelayPaused, got %v", err)
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected rich error envelope, got %T", err)
	}
	if richErr.TextCode != RelayErrorPaused {
		t.Fatalf("expected text code %q, got %q", RelayErrorPaused, richErr.TextCode)
	}
	if richErr.Category != goerrors.CategoryConflict {
		t.Fatalf("expected conflict category, got %v", richErr.Category)
	}

	page, err := ledger.ListLedger(ctx, LedgerFilter{Kind: RecordKindTransfer})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("rejected relay must not reach the ledger, got %d transfers", page.Total)
	}
}

func TestTransferOwnershipAuthorization(t *testing.T) {
	ctx := context.Background()
	service := newTestRelay(t, Identity("alice"))

	if _, err := service.TransferOwnership(ctx, Identity("mallory"), Identity("bob")); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for non-owner caller, got %v", err)
	}

	// Ownership is checked before the new owner, so a non-owner with a
	// zero target still fails as not-owner.
	if _, err := service.TransferOwnership(ctx, Identity("mallory"), ZeroIdentity); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner to take precedence over zero target, got %v", err)
	}

	if _, err := service.TransferOwnership(ctx, Identity("alice"), ZeroIdentity); !errors.Is(err, ErrInvalidOwner) {
		t.Fatalf("expected ErrInvalidOwner for zero new owner, got %v", err)
	}
	if _, err := service.TransferOwnership(ctx, Identity("alice"), Identity("0x0000")); !errors.Is(err, ErrInvalidOwner) {
		t.Fatalf("expected ErrInvalidOwner for all-zero hex new owner, got %v", err)
	}
}

func TestTransferOwnershipCommitsAndRecords(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	service := newTestRelay(t, Identity("alice"), WithLedger(ledger))

	record, err := service.TransferOwnership(ctx, Identity("alice"), Identity("bob"))
	if err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	if record.PreviousOwner != Identity("alice") || record.NewOwner != Identity("bob") {
		t.Fatalf("unexpected ownership record %+v", record)
	}

	owner, err := service.Owner(ctx)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if owner != Identity("bob") {
		t.Fatalf("expected new owner bob, got %q", owner)
	}

	// Previous owner loses rights immediately.
	if _, err := service.TogglePause(ctx, Identity("alice")); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected previous owner to be rejected, got %v", err)
	}
	if _, err := service.TogglePause(ctx, Identity("bob")); err != nil {
		t.Fatalf("expected new owner to be accepted, got %v", err)
	}

	page, err := ledger.ListLedger(ctx, LedgerFilter{Kind: RecordKindOwnershipChange})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one ownership change entry, got %d", page.Total)
	}
	if page.Entries[0].Ownership.PreviousOwner != Identity("alice") {
		t.Fatalf("audit entry must carry the pre-mutation owner")
	}
}

func TestTransferOwnershipToSelfStillEmitsARecord(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	service := newTestRelay(t, Identity("alice"), WithLedger(ledger))

	record, err := service.TransferOwnership(ctx, Identity("alice"), Identity("alice"))
	if err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	if record.PreviousOwner != Identity("alice") || record.NewOwner != Identity("alice") {
		t.Fatalf("unexpected self-transfer record %+v", record)
	}

	owner, err := service.Owner(ctx)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if owner != Identity("alice") {
		t.Fatalf("expected owner unchanged, got %q", owner)
	}

	page, err := ledger.ListLedger(ctx, LedgerFilter{Kind: RecordKindOwnershipChange})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one ownership entry for the no-op transfer, got %d", page.Total)
	}
}

func TestTogglePauseFlipsAndRecordsPostToggleValue(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	service := newTestRelay(t, Identity("alice"), WithLedger(ledger))

	record, err := service.TogglePause(ctx, Identity("alice"))
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !record.IsPaused {
		t.Fatalf("expected first toggle to pause")
	}
	record, err = service.TogglePause(ctx, Identity("alice"))
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if record.IsPaused {
		t.Fatalf("expected second toggle to unpause")
	}

	page, err := ledger.ListLedger(ctx, LedgerFilter{Kind: RecordKindPauseState})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected two pause entries, got %d", page.Total)
	}
	if !page.Entries[0].PauseState.IsPaused || page.Entries[1].PauseState.IsPaused {
		t.Fatalf("pause entries must reflect the post-toggle values in order")
	}
}

func TestLedgerSequenceMatchesAdmissionOrder(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	service := newTestRelay(t, Identity("alice"),
		WithLedger(ledger),
		WithClock(testClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))),
	)

	if _, err := service.Relay(ctx, RelayRequest{Caller: Identity("carol")}); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if _, err := service.TransferOwnership(ctx, Identity("alice"), Identity("bob")); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	if _, err := service.TogglePause(ctx, Identity("bob")); err != nil {
		t.Fatalf("toggle pause: %v", err)
	}
	if _, err := service.TogglePause(ctx, Identity("bob")); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if _, err := service.Relay(ctx, RelayRequest{Caller: Identity("carol")}); err != nil {
		t.Fatalf("final relay: %v", err)
	}

	page, err := service.ListLedger(ctx, LedgerFilter{})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	wantKinds := []LedgerRecordKind{
		RecordKindTransfer,
		RecordKindOwnershipChange,
		RecordKindPauseState,
		RecordKindPauseState,
		RecordKindTransfer,
	}
	if len(page.Entries) != len(wantKinds) {
		t.Fatalf("expected %d entries, got %d", len(wantKinds), len(page.Entries))
	}
	for i, entry := range page.Entries {
		if entry.Kind != wantKinds[i] {
			t.Fatalf("entry %d: expected kind %q, got %q", i, wantKinds[i], entry.Kind)
		}
		if entry.Seq != int64(i+1) {
			t.Fatalf("entry %d: expected seq %d, got %d", i, i+1, entry.Seq)
		}
	}
}

func TestFailedLedgerAppendFailsTheCall(t *testing.T) {
	ctx := context.Background()
	failing := &failingLedger{err: errors.New("ledger unavailable")}
	store := NewMemoryStateStore()
	service := newTestRelay(t, Identity("alice"), WithLedger(failing), WithStateStore(store))

	if _, err := service.Relay(ctx, RelayRequest{Caller: Identity("carol")}); err == nil {
		t.Fatalf("expected relay to fail when append fails")
	}

	// A failed append aborts the mutation before the state commit.
	if _, err := service.TransferOwnership(ctx, Identity("alice"), Identity("bob")); err == nil {
		t.Fatalf("expected transfer to fail when append fails")
	}
	owner, err := service.Owner(ctx)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if owner != Identity("alice") {
		t.Fatalf("expected ownership to stay with alice, got %q", owner)
	}
	state, _, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if state.Owner != Identity("alice") {
		t.Fatalf("expected persisted owner alice, got %q", state.Owner)
	}
}

func TestFailedStateSaveEmitsNothing(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	store := &failingStateStore{inner: NewMemoryStateStore()}
	service := newTestRelay(t, Identity("alice"), WithLedger(ledger), WithStateStore(store))

	store.failSave = true

	if _, err := service.TransferOwnership(ctx, Identity("alice"), Identity("bob")); err == nil {
		t.Fatalf("expected transfer to fail when state save fails")
	}
	if _, err := service.TogglePause(ctx, Identity("alice")); err == nil {
		t.Fatalf("expected toggle to fail when state save fails")
	}

	owner, err := service.Owner(ctx)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if owner != Identity("alice") {
		t.Fatalf("expected ownership to stay with alice, got %q", owner)
	}
	paused, err := service.PauseState(ctx)
	if err != nil {
		t.Fatalf("pause state: %v", err)
	}
	if paused {
		t.Fatalf("expected pause flag unchanged")
	}

	// A failed call is all-or-nothing: nothing may reach the ledger.
	page, err := ledger.ListLedger(ctx, LedgerFilter{})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("failed calls emitted %d record(s)", page.Total)
	}

	store.failSave = false
	if _, err := service.TransferOwnership(ctx, Identity("alice"), Identity("bob")); err != nil {
		t.Fatalf("transfer after recovery: %v", err)
	}
	page, err = ledger.ListLedger(ctx, LedgerFilter{})
	if err != nil {
		t.Fatalf("list ledger after recovery: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected exactly one record after recovery, got %d", page.Total)
	}
}

func TestAtomicStoreCommitsAppendAndSaveTogether(t *testing.T) {
	ctx := context.Background()
	atomic := &recordingAtomicStore{
		ledger: NewMemoryLedger(),
		state:  NewMemoryStateStore(),
	}
	service := newTestRelay(t, Identity("alice"),
		WithLedger(atomic.ledger),
		WithStateStore(atomic.state),
		WithAtomicStore(atomic),
	)

	if _, err := service.TransferOwnership(ctx, Identity("alice"), Identity("bob")); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	if atomic.calls != 1 {
		t.Fatalf("expected the commit to go through the atomic store, got %d calls", atomic.calls)
	}

	atomic.fail = true
	if _, err := service.TogglePause(ctx, Identity("bob")); err == nil {
		t.Fatalf("expected toggle to fail when the atomic commit fails")
	}
	paused, err := service.PauseState(ctx)
	if err != nil {
		t.Fatalf("pause state: %v", err)
	}
	if paused {
		t.Fatalf("expected pause flag unchanged after failed atomic commit")
	}
	page, err := atomic.ledger.ListLedger(ctx, LedgerFilter{Kind: RecordKindPauseState})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("failed atomic commit emitted %d pause record(s)", page.Total)
	}
}

func TestActivityOrderMatchesLedgerOrder(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	sink := NewMemoryActivitySink()
	service := newTestRelay(t, Identity("alice"), WithLedger(ledger), WithActivitySink(sink))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := Identity(fmt.Sprintf("caller-%02d", i))
			if _, err := service.Relay(ctx, RelayRequest{Caller: caller}); err != nil {
				t.Errorf("relay %s: %v", caller, err)
			}
		}(i)
	}
	wg.Wait()

	ledgerPage, err := service.ListLedger(ctx, LedgerFilter{})
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	activityPage, err := sink.List(ctx, ActivityFilter{Operation: "relay"})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(ledgerPage.Entries) != 16 || len(activityPage.Entries) != 16 {
		t.Fatalf("expected 16 entries each, got ledger=%d activity=%d",
			len(ledgerPage.Entries), len(activityPage.Entries))
	}
	for i := range ledgerPage.Entries {
		from := ledgerPage.Entries[i].Transfer.From
		actor := activityPage.Entries[i].Actor
		if !from.Equal(actor) {
			t.Fatalf("entry %d: activity actor %q does not match ledger caller %q", i, actor, from)
		}
	}
}

func TestActivityRecordsRejectionsAndSuccesses(t *testing.T) {
	ctx := context.Background()
	sink := NewMemoryActivitySink()
	service := newTestRelay(t, Identity("alice"), WithActivitySink(sink))

	if _, err := service.Relay(ctx, RelayRequest{Caller: Identity("carol")}); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if _, err := service.TogglePause(ctx, Identity("mallory")); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := service.TogglePause(ctx, Identity("alice")); err != nil {
		t.Fatalf("toggle pause: %v", err)
	}
	if _, err := service.Relay(ctx, RelayRequest{Caller: Identity("carol")}); !errors.Is(err, ErrRelayPaused) {
		t.Fatalf("expected ErrRelayPaused, got %v", err)
	}

	page, err := sink.List(ctx, ActivityFilter{})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if page.Total != 4 {
		t.Fatalf("expected 4 activity entries, got %d", page.Total)
	}

	rejected, err := sink.List(ctx, ActivityFilter{Status: ActivityStatusRejected})
	if err != nil {
		t.Fatalf("list rejected: %v", err)
	}
	if rejected.Total != 2 {
		t.Fatalf("expected 2 rejected entries, got %d", rejected.Total)
	}

	relayed, err := sink.List(ctx, ActivityFilter{Operation: "relay", Status: ActivityStatusOK})
	if err != nil {
		t.Fatalf("list relay ok: %v", err)
	}
	if relayed.Total != 1 {
		t.Fatalf("expected 1 successful relay entry, got %d", relayed.Total)
	}
	if relayed.Entries[0].Actor != Identity("carol") {
		t.Fatalf("expected actor carol, got %q", relayed.Entries[0].Actor)
	}
}

func TestObserveOperationEmitsMetrics(t *testing.T) {
	ctx := context.Background()
	recorder := &capturingMetricsRecorder{}
	service := newTestRelay(t, Identity("alice"), WithMetricsRecorder(recorder))

	if _, err := service.Relay(ctx, RelayRequest{Caller: Identity("carol")}); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if _, err := service.TogglePause(ctx, Identity("mallory")); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if recorder.counters["relay.relay.total"] != 1 {
		t.Fatalf("expected relay counter, got %+v", recorder.counters)
	}
	if recorder.counters["relay.toggle_pause.total"] != 1 {
		t.Fatalf("expected toggle counter, got %+v", recorder.counters)
	}
	if recorder.lastTags["status"] != "failure" {
		t.Fatalf("expected failure status tag for rejected toggle, got %+v", recorder.lastTags)
	}
	if recorder.histograms["relay.relay.duration_ms"] != 1 {
		t.Fatalf("expected duration histogram, got %+v", recorder.histograms)
	}
}

func TestDependenciesExposeConfiguredCollaborators(t *testing.T) {
	ledger := NewMemoryLedger()
	sink := NewMemoryActivitySink()
	service := newTestRelay(t, Identity("alice"), WithLedger(ledger), WithActivitySink(sink))

	deps := service.Dependencies()
	if deps.Ledger != LedgerStore(ledger) {
		t.Fatalf("expected configured ledger to be exposed")
	}
	if deps.ActivitySink != ActivitySink(sink) {
		t.Fatalf("expected configured activity sink to be exposed")
	}
	if deps.MetricsRecorder == nil || deps.ErrorMapper == nil {
		t.Fatalf("expected defaulted observability collaborators")
	}

	cfg := service.Config()
	if cfg.ServiceName != "relay" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
}

type failingLedger struct {
	err error
}

func (l *failingLedger) Append(context.Context, LedgerEntry) (LedgerEntry, error) {
	return LedgerEntry{}, l.err
}

func (l *failingLedger) ListLedger(context.Context, LedgerFilter) (LedgerPage, error) {
	return LedgerPage{}, l.err
}

type failingStateStore struct {
	inner    *MemoryStateStore
	failSave bool
}

func (s *failingStateStore) Load(ctx context.Context) (RelayState, bool, error) {
	return s.inner.Load(ctx)
}

func (s *failingStateStore) Save(ctx context.Context, state RelayState) error {
	if s.failSave {
		return errors.New("state store unavailable")
	}
	return s.inner.Save(ctx, state)
}

type recordingAtomicStore struct {
	ledger *MemoryLedger
	state  *MemoryStateStore
	calls  int
	fail   bool
}

func (s *recordingAtomicStore) AppendAndSave(ctx context.Context, entry LedgerEntry, state RelayState) (LedgerEntry, error) {
	s.calls++
	if s.fail {
		return LedgerEntry{}, errors.New("atomic commit failed")
	}
	stored, err := s.ledger.Append(ctx, entry)
	if err != nil {
		return LedgerEntry{}, err
	}
	if err := s.state.Save(ctx, state); err != nil {
		return LedgerEntry{}, err
	}
	return stored, nil
}

type capturingMetricsRecorder struct {
	counters   map[string]int64
	histograms map[string]int
	lastTags   map[string]string
}

func (r *capturingMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r.counters == nil {
		r.counters = map[string]int64{}
	}
	r.counters[name] += value
	r.lastTags = tags
}

func (r *capturingMetricsRecorder) ObserveHistogram(_ context.Context, name string, _ float64, tags map[string]string) {
	if r.histograms == nil {
		r.histograms = map[string]int{}
	}
	r.histograms[name]++
	r.lastTags = tags
}
