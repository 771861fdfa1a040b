package system

// Phase defines execution ordering within a single clock advance.
type Phase int

const (
	PhaseHosts      Phase = iota // 0: platforms
	PhaseDependents              // 1: beams (target beams read host positions)
	PhaseSecondary               // 2: gates (target gates read their beam)
	PhaseData                    // 3: generic and category data
	PhaseLeaves                  // 4: lasers, projectors, lob groups, custom renderings
	PhaseNotify                  // 5: per-advance notifications
)

// System is one step of the per-advance pipeline.
type System interface {
	Phase() Phase
	Update(time float64)
}

// Func adapts a plain function into a System.
type Func struct {
	P  Phase
	Fn func(time float64)
}

func (f Func) Phase() Phase        { return f.P }
func (f Func) Update(time float64) { f.Fn(time) }
