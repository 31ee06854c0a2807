package cli

import "fmt"

// Phase is one stage of the compile-cache-execute pipeline.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseSynthesizing
	PhaseHashLookup
	PhaseCacheHit
	PhaseCompiling
	PhaseLinked
	PhaseCompileFailed
	PhaseExecuting
	PhaseSuccess
	PhaseNonZeroExit
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "Start"
	case PhaseSynthesizing:
		return "Synthesizing"
	case PhaseHashLookup:
		return "HashLookup"
	case PhaseCacheHit:
		return "CacheHit"
	case PhaseCompiling:
		return "Compiling"
	case PhaseLinked:
		return "Linked"
	case PhaseCompileFailed:
		return "CompileFailed"
	case PhaseExecuting:
		return "Executing"
	case PhaseSuccess:
		return "Success"
	case PhaseNonZeroExit:
		return "NonZeroExit"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// IsTerminal reports whether the pipeline is finished in this phase.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseCompileFailed, PhaseSuccess, PhaseNonZeroExit:
		return true
	default:
		return false
	}
}

// Pipeline tracks the run through its phases, rejecting transitions the
// pipeline does not define. A cache hit skips compilation entirely; a
// compile failure is terminal and caches nothing.
type Pipeline struct {
	phase Phase
}

// NewPipeline starts a pipeline at PhaseStart.
func NewPipeline() *Pipeline {
	return &Pipeline{phase: PhaseStart}
}

// Phase returns the current phase.
func (p *Pipeline) Phase() Phase {
	return p.phase
}

// To performs a validated transition.
func (p *Pipeline) To(next Phase) error {
	if !allowedTransition(p.phase, next) {
		return fmt.Errorf("disallowed pipeline transition: %s -> %s", p.phase, next)
	}
	p.phase = next
	return nil
}

func allowedTransition(from, to Phase) bool {
	switch from {
	case PhaseStart:
		return to == PhaseSynthesizing
	case PhaseSynthesizing:
		return to == PhaseHashLookup
	case PhaseHashLookup:
		return to == PhaseCacheHit || to == PhaseCompiling
	case PhaseCompiling:
		return to == PhaseLinked || to == PhaseCompileFailed
	case PhaseCacheHit, PhaseLinked:
		return to == PhaseExecuting
	case PhaseExecuting:
		return to == PhaseSuccess || to == PhaseNonZeroExit
	default:
		return false
	}
}
