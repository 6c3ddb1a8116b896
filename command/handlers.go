package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-relay/core"
)

type MutatingService interface {
	Relay(ctx context.Context, req core.RelayRequest) (core.TransferRecord, error)
	TransferOwnership(ctx context.Context, caller core.Identity, newOwner core.Identity) (core.OwnershipChangeRecord, error)
	TogglePause(ctx context.Context, caller core.Identity) (core.PauseStateRecord, error)
}

type RelayCommand struct {
	service MutatingService
}

func NewRelayCommand(service MutatingService) *RelayCommand {
	return &RelayCommand{service: service}
}

func (c *RelayCommand) Execute(ctx context.Context, msg RelayMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: relay service is required")
	}
	out, err := c.service.Relay(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type TransferOwnershipCommand struct {
	service MutatingService
}

func NewTransferOwnershipCommand(service MutatingService) *TransferOwnershipCommand {
	return &TransferOwnershipCommand{service: service}
}

func (c *TransferOwnershipCommand) Execute(ctx context.Context, msg TransferOwnershipMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: ownership service is required")
	}
	out, err := c.service.TransferOwnership(ctx, msg.Caller, msg.NewOwner)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type TogglePauseCommand struct {
	service MutatingService
}

func NewTogglePauseCommand(service MutatingService) *TogglePauseCommand {
	return &TogglePauseCommand{service: service}
}

func (c *TogglePauseCommand) Execute(ctx context.Context, msg TogglePauseMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: pause service is required")
	}
	out, err := c.service.TogglePause(ctx, msg.Caller)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
