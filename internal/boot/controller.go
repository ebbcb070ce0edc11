package boot

import (
	"context"
	"log"
	"sync"
)

// EnvCheck reports the probe tables in their fixed order plus the names of
// missing configuration keys. The check runs on every retry, but whether it
// reflects live environment changes is up to the caller; the process wiring
// validates the configuration snapshot taken at startup.
type EnvCheck func() (tables []string, missing []string)

// Prober lists at most one record from a table; a nil error is a healthy
// probe. Probes are never cancelled once issued.
type Prober interface {
	Probe(ctx context.Context, table string) error
}

// ProberFunc adapts a plain function to Prober.
type ProberFunc func(ctx context.Context, table string) error

func (fn ProberFunc) Probe(ctx context.Context, table string) error {
	return fn(ctx, table)
}

// Controller drives the boot sequence: environment validation, then one
// sequential probe per table (Users, Grupos, Sessoes), then terminal
// classification. Each probe outcome is published before the next probe
// starts so the presentation layer can show partial progress.
//
// Retries are not serialized. Every Run opens a new generation; probe
// completions from an older generation are discarded so a slow stale probe
// can never overwrite a newer attempt's state.
type Controller struct {
	mu         sync.Mutex
	state      State
	generation uint64

	checkEnv EnvCheck
	prober   Prober
	logger   *log.Logger
}

func NewController(checkEnv EnvCheck, prober Prober, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		state:    State{Stage: StageEnv},
		checkEnv: checkEnv,
		prober:   prober,
		logger:   logger,
	}
}

// Snapshot returns a copy of the current boot state.
func (controller *Controller) Snapshot() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return cloneState(controller.state)
}

// Ready reports whether the application may serve protected traffic.
func (controller *Controller) Ready() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state.Stage == StageReady
}

// Run executes one full boot attempt and returns the resulting state.
func (controller *Controller) Run(ctx context.Context) State {
	generation := controller.beginAttempt()

	tables, missing := controller.checkEnv()
	controller.apply(generation, EnvChecked{Missing: missing})
	if len(missing) > 0 {
		controller.logger.Printf("boot: configuration incomplete, missing %v", missing)
		return controller.Snapshot()
	}

	controller.apply(generation, ProbesStarted{Tables: tables})
	for index, table := range tables {
		err := controller.prober.Probe(ctx, table)
		if err != nil {
			controller.logger.Printf("boot: health check failed for %s: %v", table, err)
			controller.apply(generation, ProbeFinished{Index: index, Err: err.Error()})
			continue
		}
		controller.apply(generation, ProbeFinished{Index: index})
	}

	return controller.Snapshot()
}

// Retry re-runs the sequence from environment validation.
func (controller *Controller) Retry(ctx context.Context) State {
	return controller.Run(ctx)
}

func (controller *Controller) beginAttempt() uint64 {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.generation++
	return controller.generation
}

// apply folds an event into the state unless a newer attempt has started.
func (controller *Controller) apply(generation uint64, event Event) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if generation != controller.generation {
		return
	}
	controller.state = Reduce(controller.state, event)
}

func cloneState(state State) State {
	clone := State{Stage: state.Stage}
	if state.Missing != nil {
		clone.Missing = append([]string(nil), state.Missing...)
	}
	if state.Probes != nil {
		clone.Probes = append([]Probe(nil), state.Probes...)
	}
	return clone
}
