package simdata

// Command is a time-stamped preferences patch. A merge command copies the
// set fields of UpdatePrefs onto the replay accumulator. A clear command
// instead unsets every field that is set in UpdatePrefs.
type Command[P any] struct {
	Time           float64 `yaml:"time"`
	UpdatePrefs    *P      `yaml:"updateprefs"`
	IsClearCommand bool    `yaml:"isclearcommand"`
}

func (c *Command[P]) GetTime() float64 { return c.Time }

// MutableUpdatePrefs returns the patch, allocating it when unset.
func (c *Command[P]) MutableUpdatePrefs() *P {
	if c.UpdatePrefs == nil {
		c.UpdatePrefs = new(P)
	}
	return c.UpdatePrefs
}

type (
	PlatformCommand        = Command[PlatformPrefs]
	BeamCommand            = Command[BeamPrefs]
	GateCommand            = Command[GatePrefs]
	LaserCommand           = Command[LaserPrefs]
	ProjectorCommand       = Command[ProjectorPrefs]
	LobGroupCommand        = Command[LobGroupPrefs]
	CustomRenderingCommand = Command[CustomRenderingPrefs]
)
