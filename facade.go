package relay

import (
	"fmt"

	relaycommand "github.com/goliatone/go-relay/command"
	"github.com/goliatone/go-relay/core"
	relayquery "github.com/goliatone/go-relay/query"
)

type CommandQueryService interface {
	relaycommand.MutatingService
	relayquery.StateReader
	relayquery.LedgerReader
}

type Commands struct {
	Relay             *relaycommand.RelayCommand
	TransferOwnership *relaycommand.TransferOwnershipCommand
	TogglePause       *relaycommand.TogglePauseCommand
}

type Queries struct {
	GetOwner      *relayquery.GetOwnerQuery
	GetPauseState *relayquery.GetPauseStateQuery
	ListLedger    *relayquery.ListLedgerQuery
	ListActivity  *relayquery.ListActivityQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	activityReader relayquery.ActivityReader
}

func WithActivityReader(reader relayquery.ActivityReader) FacadeOption {
	return func(options *facadeOptions) {
		options.activityReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("relay: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.activityReader
	if reader == nil {
		reader = resolveActivityReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		Relay:             relaycommand.NewRelayCommand(service),
		TransferOwnership: relaycommand.NewTransferOwnershipCommand(service),
		TogglePause:       relaycommand.NewTogglePauseCommand(service),
	}
	facade.queries = Queries{
		GetOwner:      relayquery.NewGetOwnerQuery(service),
		GetPauseState: relayquery.NewGetPauseStateQuery(service),
		ListLedger:    relayquery.NewListLedgerQuery(service),
		ListActivity:  relayquery.NewListActivityQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func resolveActivityReader(service CommandQueryService) relayquery.ActivityReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(relayquery.ActivityReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	deps := provider.Dependencies()
	if deps.ActivitySink == nil {
		return nil
	}
	return deps.ActivitySink
}
