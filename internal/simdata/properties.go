package simdata

// Properties is the identity record of an entity. It is written once when
// the entity is added and never mutated afterwards.
type Properties interface {
	GetID() ObjectID
	GetHostID() ObjectID
	GetOriginalID() uint64
	GetSource() string
}

// BeamType selects how a beam's pointing is computed.
type BeamType int

const (
	BeamAbsolutePosition BeamType = iota
	BeamBodyRelative
	BeamTarget // pointing is derived from host and target platform positions
)

// GateType selects how a gate's pointing is computed.
type GateType int

const (
	GateAbsolutePosition GateType = iota
	GateBodyRelative
	GateTarget // az/el come from the host target beam
)

type PlatformProperties struct {
	ID         ObjectID `yaml:"id"`
	OriginalID uint64   `yaml:"originalid"`
	Source     string   `yaml:"source"`
}

func (p *PlatformProperties) GetID() ObjectID       { return p.ID }
func (p *PlatformProperties) GetHostID() ObjectID   { return 0 }
func (p *PlatformProperties) GetOriginalID() uint64 { return p.OriginalID }
func (p *PlatformProperties) GetSource() string     { return p.Source }

type BeamProperties struct {
	ID         ObjectID `yaml:"id"`
	HostID     ObjectID `yaml:"hostid"`
	OriginalID uint64   `yaml:"originalid"`
	Type       BeamType `yaml:"type"`
	Source     string   `yaml:"source"`
}

func (p *BeamProperties) GetID() ObjectID       { return p.ID }
func (p *BeamProperties) GetHostID() ObjectID   { return p.HostID }
func (p *BeamProperties) GetOriginalID() uint64 { return p.OriginalID }
func (p *BeamProperties) GetSource() string     { return p.Source }

type GateProperties struct {
	ID         ObjectID `yaml:"id"`
	HostID     ObjectID `yaml:"hostid"`
	OriginalID uint64   `yaml:"originalid"`
	Type       GateType `yaml:"type"`
	Source     string   `yaml:"source"`
}

func (p *GateProperties) GetID() ObjectID       { return p.ID }
func (p *GateProperties) GetHostID() ObjectID   { return p.HostID }
func (p *GateProperties) GetOriginalID() uint64 { return p.OriginalID }
func (p *GateProperties) GetSource() string     { return p.Source }

type LaserProperties struct {
	ID         ObjectID `yaml:"id"`
	HostID     ObjectID `yaml:"hostid"`
	OriginalID uint64   `yaml:"originalid"`
	Source     string   `yaml:"source"`
}

func (p *LaserProperties) GetID() ObjectID       { return p.ID }
func (p *LaserProperties) GetHostID() ObjectID   { return p.HostID }
func (p *LaserProperties) GetOriginalID() uint64 { return p.OriginalID }
func (p *LaserProperties) GetSource() string     { return p.Source }

type ProjectorProperties struct {
	ID         ObjectID `yaml:"id"`
	HostID     ObjectID `yaml:"hostid"`
	OriginalID uint64   `yaml:"originalid"`
	Source     string   `yaml:"source"`
}

func (p *ProjectorProperties) GetID() ObjectID       { return p.ID }
func (p *ProjectorProperties) GetHostID() ObjectID   { return p.HostID }
func (p *ProjectorProperties) GetOriginalID() uint64 { return p.OriginalID }
func (p *ProjectorProperties) GetSource() string     { return p.Source }

type LobGroupProperties struct {
	ID         ObjectID `yaml:"id"`
	HostID     ObjectID `yaml:"hostid"`
	OriginalID uint64   `yaml:"originalid"`
	Source     string   `yaml:"source"`
}

func (p *LobGroupProperties) GetID() ObjectID       { return p.ID }
func (p *LobGroupProperties) GetHostID() ObjectID   { return p.HostID }
func (p *LobGroupProperties) GetOriginalID() uint64 { return p.OriginalID }
func (p *LobGroupProperties) GetSource() string     { return p.Source }

type CustomRenderingProperties struct {
	ID         ObjectID `yaml:"id"`
	HostID     ObjectID `yaml:"hostid"`
	OriginalID uint64   `yaml:"originalid"`
	Renderer   string   `yaml:"renderer"`
	Source     string   `yaml:"source"`
}

func (p *CustomRenderingProperties) GetID() ObjectID       { return p.ID }
func (p *CustomRenderingProperties) GetHostID() ObjectID   { return p.HostID }
func (p *CustomRenderingProperties) GetOriginalID() uint64 { return p.OriginalID }
func (p *CustomRenderingProperties) GetSource() string     { return p.Source }

// ScenarioProperties describes the scenario as a whole. Its data limits
// bound the scenario-level generic and category data.
type ScenarioProperties struct {
	Description         string     `yaml:"description"`
	ClassificationLabel string     `yaml:"classificationlabel"`
	ReferenceLLA        [3]float64 `yaml:"referencella"`
	DataLimitTime       float64    `yaml:"datalimittime"`
	DataLimitPoints     uint32     `yaml:"datalimitpoints"`
	Source              string     `yaml:"source"`
}

// DefaultScenarioProperties returns the properties of a fresh scenario.
func DefaultScenarioProperties() ScenarioProperties {
	return ScenarioProperties{
		DataLimitTime:   -1,
		DataLimitPoints: 1000,
	}
}
