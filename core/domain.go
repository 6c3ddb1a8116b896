package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotOwner     = errors.New("core: caller is not the relay owner")
	ErrInvalidOwner = errors.New("core: new owner is the zero identity")
	ErrRelayPaused  = errors.New("core: relay is paused")
	ErrInvalidKind  = errors.New("core: invalid ledger record kind")
)

// Identity is an opaque caller identity supplied by the host environment.
// The relay trusts it completely and performs no authentication of its own.
type Identity string

const ZeroIdentity Identity = ""

func (i Identity) String() string {
	return strings.TrimSpace(string(i))
}

// IsZero reports whether the identity is the null/zero identity: empty
// after trimming, or an all-zero hex address.
func (i Identity) IsZero() bool {
	trimmed := strings.ToLower(strings.TrimSpace(string(i)))
	if trimmed == "" {
		return true
	}
	if !strings.HasPrefix(trimmed, "0x") {
		return false
	}
	return strings.Trim(trimmed[2:], "0") == ""
}

func (i Identity) Equal(other Identity) bool {
	return i.String() == other.String()
}

// RelayState is the single authorization root of a deployed relay: the
// current owner and the pause flag. Exactly one logical instance exists
// per deployment.
type RelayState struct {
	Owner     Identity
	Paused    bool
	UpdatedAt time.Time
}

func (s RelayState) Validate() error {
	if s.Owner.IsZero() {
		return fmt.Errorf("%w: relay state owner", ErrInvalidOwner)
	}
	return nil
}

type LedgerRecordKind string

const (
	RecordKindTransfer        LedgerRecordKind = "transfer"
	RecordKindOwnershipChange LedgerRecordKind = "ownership_change"
	RecordKindPauseState      LedgerRecordKind = "pause_state"
)

func (k LedgerRecordKind) Validate() error {
	switch k {
	case RecordKindTransfer, RecordKindOwnershipChange, RecordKindPauseState:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
}

// TransferRecord is the audit record of one successful relay call. The
// payload is opaque: never parsed, never transformed, never size-bounded
// here.
type TransferRecord struct {
	From        Identity
	To          Identity
	MessageType uint64
	Data        []byte
}

// OwnershipChangeRecord captures the pre-mutation owner alongside the new
// one so the audit trail always shows what changed from what.
type OwnershipChangeRecord struct {
	PreviousOwner Identity
	NewOwner      Identity
}

// PauseStateRecord reflects the pause flag after the toggle took effect.
type PauseStateRecord struct {
	IsPaused bool
}

// LedgerEntry is the envelope the ledger stores. Exactly one of the
// record pointers is set, matching Kind. Seq is assigned by the ledger
// and is strictly increasing per relay instance.
type LedgerEntry struct {
	ID         string
	Seq        int64
	Kind       LedgerRecordKind
	Transfer   *TransferRecord
	Ownership  *OwnershipChangeRecord
	PauseState *PauseStateRecord
	CreatedAt  time.Time
}

func (e LedgerEntry) Validate() error {
	if err := e.Kind.Validate(); err != nil {
		return err
	}
	switch e.Kind {
	case RecordKindTransfer:
		if e.Transfer == nil {
			return fmt.Errorf("%w: transfer entry has no transfer record", ErrInvalidKind)
		}
	case RecordKindOwnershipChange:
		if e.Ownership == nil {
			return fmt.Errorf("%w: ownership entry has no ownership record", ErrInvalidKind)
		}
	case RecordKindPauseState:
		if e.PauseState == nil {
			return fmt.Errorf("%w: pause entry has no pause record", ErrInvalidKind)
		}
	}
	return nil
}

// RelayRequest carries one relay call. Caller is the host-authenticated
// identity; To is intentionally unvalidated against any registry.
type RelayRequest struct {
	Caller      Identity
	To          Identity
	MessageType uint64
	Data        []byte
}

type LedgerFilter struct {
	Kind     LedgerRecordKind
	From     Identity
	AfterSeq int64
	Page     int
	PerPage  int
}

type LedgerPage struct {
	Entries []LedgerEntry
	Page    int
	PerPage int
	Total   int
}

type ActivityStatus string

const (
	ActivityStatusOK       ActivityStatus = "ok"
	ActivityStatusRejected ActivityStatus = "rejected"
	ActivityStatusError    ActivityStatus = "error"
)

// ActivityEntry is the operational audit of one call attempt, including
// rejected attempts that emit nothing to the canonical ledger.
type ActivityEntry struct {
	ID        string
	Operation string
	Actor     Identity
	Status    ActivityStatus
	Error     string
	Metadata  map[string]any
	CreatedAt time.Time
}

type ActivityFilter struct {
	Operation string
	Actor     Identity
	Status    ActivityStatus
	Page      int
	PerPage   int
}

type ActivityPage struct {
	Entries []ActivityEntry
	Page    int
	PerPage int
	Total   int
}

func copyAnyMap(input map[string]any) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(input))
	for key, value := range input {
		copied[key] = value
	}
	return copied
}

func copyBytes(input []byte) []byte {
	if input == nil {
		return nil
	}
	return append([]byte(nil), input...)
}

func cloneLedgerEntry(entry LedgerEntry) LedgerEntry {
	cloned := entry
	if entry.Transfer != nil {
		transfer := *entry.Transfer
		transfer.Data = copyBytes(entry.Transfer.Data)
		cloned.Transfer = &transfer
	}
	if entry.Ownership != nil {
		ownership := *entry.Ownership
		cloned.Ownership = &ownership
	}
	if entry.PauseState != nil {
		pause := *entry.PauseState
		cloned.PauseState = &pause
	}
	return cloned
}
