package boot

import (
	"fmt"
	"reflect"
	"testing"
)

func TestReduceEnvChecked(t *testing.T) {
	t.Parallel()

	missing := Reduce(State{}, EnvChecked{Missing: []string{"AIRTABLE_API_KEY"}})
	if missing.Stage != StageEnv {
		t.Fatalf("stage = %s, want env", missing.Stage)
	}
	if !reflect.DeepEqual(missing.Missing, []string{"AIRTABLE_API_KEY"}) {
		t.Fatalf("missing = %v", missing.Missing)
	}

	clean := Reduce(State{}, EnvChecked{})
	if clean.Stage != StageEnv || len(clean.Missing) != 0 {
		t.Fatalf("clean env check = %+v", clean)
	}
}

func TestReduceProbesStartedEntersHealthWithPendingProbes(t *testing.T) {
	t.Parallel()

	state := Reduce(State{Stage: StageEnv}, ProbesStarted{Tables: []string{"Users", "Grupos", "Sessoes"}})
	if state.Stage != StageHealth {
		t.Fatalf("stage = %s, want health", state.Stage)
	}
	if len(state.Probes) != 3 {
		t.Fatalf("probes = %d, want 3", len(state.Probes))
	}
	for index, table := range []string{"Users", "Grupos", "Sessoes"} {
		if state.Probes[index].Table != table || state.Probes[index].Status != ProbePending {
			t.Fatalf("probe[%d] = %+v", index, state.Probes[index])
		}
	}
}

func TestReduceStaysInHealthUntilAllProbesFinish(t *testing.T) {
	t.Parallel()

	state := Reduce(State{}, ProbesStarted{Tables: []string{"Users", "Grupos", "Sessoes"}})
	state = Reduce(state, ProbeFinished{Index: 0})
	if state.Stage != StageHealth {
		t.Fatalf("stage after first probe = %s, want health", state.Stage)
	}
	state = Reduce(state, ProbeFinished{Index: 1, Err: "boom"})
	if state.Stage != StageHealth {
		t.Fatalf("stage after second probe = %s, want health", state.Stage)
	}
	state = Reduce(state, ProbeFinished{Index: 2})
	if state.Stage != StageError {
		t.Fatalf("terminal stage = %s, want error", state.Stage)
	}
}

func TestReduceTerminalClassification(t *testing.T) {
	t.Parallel()

	// Every combination of the three probe outcomes: ready iff all three
	// succeeded.
	for mask := 0; mask < 8; mask++ {
		mask := mask
		t.Run(fmt.Sprintf("mask_%03b", mask), func(t *testing.T) {
			t.Parallel()

			state := Reduce(State{}, ProbesStarted{Tables: []string{"Users", "Grupos", "Sessoes"}})
			for index := 0; index < 3; index++ {
				event := ProbeFinished{Index: index}
				if mask&(1<<index) != 0 {
					event.Err = "table unreachable"
				}
				state = Reduce(state, event)
			}

			want := StageReady
			if mask != 0 {
				want = StageError
			}
			if state.Stage != want {
				t.Fatalf("stage = %s, want %s", state.Stage, want)
			}
		})
	}
}

func TestReduceIgnoresOutOfRangeProbeIndex(t *testing.T) {
	t.Parallel()

	state := Reduce(State{}, ProbesStarted{Tables: []string{"Users"}})
	same := Reduce(state, ProbeFinished{Index: 5})
	if !reflect.DeepEqual(state, same) {
		t.Fatalf("out-of-range probe changed state: %+v", same)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	original := Reduce(State{}, ProbesStarted{Tables: []string{"Users", "Grupos"}})
	snapshot := append([]Probe(nil), original.Probes...)

	_ = Reduce(original, ProbeFinished{Index: 0, Err: "x"})
	if !reflect.DeepEqual(original.Probes, snapshot) {
		t.Fatal("Reduce mutated its input state")
	}
}
