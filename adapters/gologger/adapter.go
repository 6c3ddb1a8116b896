package gologger

import (
	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

// Component names in the relay logging tree. Maintenance workers log under
// the service root so a single provider configures the whole pipeline.
const (
	ComponentService       = "relay"
	ComponentActivityPrune = "relay.activity.prune"
)

// Runtime is the resolved logging pipeline shared by the relay service and
// its go-job maintenance workers.
type Runtime struct {
	Provider glog.LoggerProvider
	Logger   glog.Logger
}

// NewRuntime resolves with precedence provider > logger > nop, rooted at the
// relay service component.
func NewRuntime(provider glog.LoggerProvider, logger glog.Logger) Runtime {
	resolvedProvider, resolvedLogger := glog.Resolve(ComponentService, provider, logger)
	return Runtime{Provider: resolvedProvider, Logger: resolvedLogger}
}

// Component returns a named logger from the runtime provider.
func (r Runtime) Component(name string) glog.Logger {
	if r.Provider == nil {
		return glog.Nop()
	}
	return r.Provider.GetLogger(name)
}

// JobProvider bridges the runtime to the go-job logger provider contract so
// queue workers log through the same pipeline as the service.
func (r Runtime) JobProvider() job.LoggerProvider {
	if r.Provider == nil {
		return nil
	}
	return job.GoLoggerProvider(r.Provider)
}

// JobLogger returns the runtime root logger under the go-job contract.
func (r Runtime) JobLogger() job.Logger {
	if r.Logger == nil {
		return nil
	}
	return job.GoLogger(r.Logger)
}

// PruneLogger returns the go-job logger scoped to activity retention runs.
func (r Runtime) PruneLogger() job.Logger {
	return job.GoLogger(r.Component(ComponentActivityPrune))
}
