package command

import (
	"github.com/goliatone/go-relay/core"
)

const (
	TypeRelay             = "relay.command.relay"
	TypeTransferOwnership = "relay.command.ownership.transfer"
	TypeTogglePause       = "relay.command.pause.toggle"
)

type RelayMessage struct {
	Request core.RelayRequest
}

func (RelayMessage) Type() string { return TypeRelay }

// Validate checks only that the host supplied a caller identity. The
// recipient is deliberately unvalidated and the payload is opaque.
func (m RelayMessage) Validate() error {
	if m.Request.Caller.IsZero() {
		return commandValidationError("caller", "caller identity is required")
	}
	return nil
}

type TransferOwnershipMessage struct {
	Caller   core.Identity
	NewOwner core.Identity
}

func (TransferOwnershipMessage) Type() string { return TypeTransferOwnership }

// Validate does not reject a zero NewOwner: the ownership check must run
// first, so a non-owner caller with a zero target still fails as
// not-owner rather than bad-input.
func (m TransferOwnershipMessage) Validate() error {
	if m.Caller.IsZero() {
		return commandValidationError("caller", "caller identity is required")
	}
	return nil
}

type TogglePauseMessage struct {
	Caller core.Identity
}

func (TogglePauseMessage) Type() string { return TypeTogglePause }

func (m TogglePauseMessage) Validate() error {
	if m.Caller.IsZero() {
		return commandValidationError("caller", "caller identity is required")
	}
	return nil
}
