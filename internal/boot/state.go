package boot

// Stage is the boot pipeline position. Within one attempt it only moves
// forward: env -> health -> ready or error. A manual retry starts a new
// attempt from env.
type Stage string

const (
	StageEnv    Stage = "env"
	StageHealth Stage = "health"
	StageReady  Stage = "ready"
	StageError  Stage = "error"
)

type ProbeStatus string

const (
	ProbePending ProbeStatus = "pending"
	ProbeSuccess ProbeStatus = "success"
	ProbeError   ProbeStatus = "error"
)

// Probe is one connectivity check against a directory table.
type Probe struct {
	Table  string      `json:"table"`
	Status ProbeStatus `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// State is the full boot snapshot handed to the presentation layer.
type State struct {
	Stage   Stage    `json:"stage"`
	Missing []string `json:"missing,omitempty"`
	Probes  []Probe  `json:"probes,omitempty"`
}

// Event is a boot occurrence folded into State by Reduce.
type Event interface {
	isBootEvent()
}

// EnvChecked reports the result of environment validation.
type EnvChecked struct {
	Missing []string
}

// ProbesStarted enters the health stage with every probe pending.
type ProbesStarted struct {
	Tables []string
}

// ProbeFinished records one probe outcome. Err empty means success.
type ProbeFinished struct {
	Index int
	Err   string
}

func (EnvChecked) isBootEvent()    {}
func (ProbesStarted) isBootEvent() {}
func (ProbeFinished) isBootEvent() {}

// Reduce is the pure transition function. It never mutates its input, so
// the machine can be exercised without a controller or a network.
func Reduce(state State, event Event) State {
	switch event := event.(type) {
	case EnvChecked:
		if len(event.Missing) > 0 {
			return State{Stage: StageEnv, Missing: append([]string(nil), event.Missing...)}
		}
		return State{Stage: StageEnv}

	case ProbesStarted:
		probes := make([]Probe, len(event.Tables))
		for index, table := range event.Tables {
			probes[index] = Probe{Table: table, Status: ProbePending}
		}
		return State{Stage: StageHealth, Probes: probes}

	case ProbeFinished:
		if event.Index < 0 || event.Index >= len(state.Probes) {
			return state
		}
		probes := append([]Probe(nil), state.Probes...)
		if event.Err == "" {
			probes[event.Index] = Probe{Table: probes[event.Index].Table, Status: ProbeSuccess}
		} else {
			probes[event.Index] = Probe{Table: probes[event.Index].Table, Status: ProbeError, Error: event.Err}
		}

		next := State{Stage: state.Stage, Missing: state.Missing, Probes: probes}
		if allFinished(probes) {
			next.Stage = terminalStage(probes)
		}
		return next

	default:
		return state
	}
}

func allFinished(probes []Probe) bool {
	for _, probe := range probes {
		if probe.Status == ProbePending {
			return false
		}
	}
	return len(probes) > 0
}

// terminalStage classifies a completed health sequence: ready iff every
// probe succeeded.
func terminalStage(probes []Probe) Stage {
	for _, probe := range probes {
		if probe.Status == ProbeError {
			return StageError
		}
	}
	return StageReady
}
