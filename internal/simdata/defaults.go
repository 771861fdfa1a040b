package simdata

// DefaultPrefs holds the preference template copied into every new entity
// of each type. A nil template means an empty record.
type DefaultPrefs struct {
	Platform        *PlatformPrefs        `yaml:"platform,omitempty"`
	Beam            *BeamPrefs            `yaml:"beam,omitempty"`
	Gate            *GatePrefs            `yaml:"gate,omitempty"`
	Laser           *LaserPrefs           `yaml:"laser,omitempty"`
	Projector       *ProjectorPrefs       `yaml:"projector,omitempty"`
	LobGroup        *LobGroupPrefs        `yaml:"lobgroup,omitempty"`
	CustomRendering *CustomRenderingPrefs `yaml:"customrendering,omitempty"`
}
