package simdata

// PlatformUpdate is one position/orientation sample. Position is earth
// centred cartesian metres, orientation is psi/theta/phi in radians.
type PlatformUpdate struct {
	Time           float64 `yaml:"time"`
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	Z              float64 `yaml:"z"`
	HasOrientation bool    `yaml:"hasorientation"`
	Psi            float64 `yaml:"psi"`
	Theta          float64 `yaml:"theta"`
	Phi            float64 `yaml:"phi"`
	HasVelocity    bool    `yaml:"hasvelocity"`
	Vx             float64 `yaml:"vx"`
	Vy             float64 `yaml:"vy"`
	Vz             float64 `yaml:"vz"`
}

func (u *PlatformUpdate) GetTime() float64 { return u.Time }

// Position returns the cartesian position.
func (u *PlatformUpdate) Position() [3]float64 { return [3]float64{u.X, u.Y, u.Z} }

func (u *PlatformUpdate) LerpInto(out, next *PlatformUpdate, time, factor float64) {
	out.Time = time
	out.X = lerp(u.X, next.X, factor)
	out.Y = lerp(u.Y, next.Y, factor)
	out.Z = lerp(u.Z, next.Z, factor)
	out.HasOrientation = u.HasOrientation && next.HasOrientation
	if out.HasOrientation {
		out.Psi = lerpAngle(u.Psi, next.Psi, factor)
		out.Theta = lerpAnglePI(u.Theta, next.Theta, factor)
		out.Phi = lerpAnglePI(u.Phi, next.Phi, factor)
	} else {
		out.Psi, out.Theta, out.Phi = 0, 0, 0
	}
	out.HasVelocity = u.HasVelocity && next.HasVelocity
	if out.HasVelocity {
		out.Vx = lerp(u.Vx, next.Vx, factor)
		out.Vy = lerp(u.Vy, next.Vy, factor)
		out.Vz = lerp(u.Vz, next.Vz, factor)
	} else {
		out.Vx, out.Vy, out.Vz = 0, 0, 0
	}
}

// BeamUpdate is the pointing of a beam relative to its host.
type BeamUpdate struct {
	Time      float64 `yaml:"time"`
	Azimuth   float64 `yaml:"azimuth"`
	Elevation float64 `yaml:"elevation"`
	Range     float64 `yaml:"range"`
}

func (u *BeamUpdate) GetTime() float64 { return u.Time }

func (u *BeamUpdate) LerpInto(out, next *BeamUpdate, time, factor float64) {
	out.Time = time
	out.Azimuth = lerpAngle(u.Azimuth, next.Azimuth, factor)
	out.Elevation = lerpAnglePI(u.Elevation, next.Elevation, factor)
	out.Range = lerp(u.Range, next.Range, factor)
}

type GateUpdate struct {
	Time      float64  `yaml:"time"`
	Azimuth   float64  `yaml:"azimuth"`
	Elevation float64  `yaml:"elevation"`
	Width     float64  `yaml:"width"`
	Height    float64  `yaml:"height"`
	MinRange  float64  `yaml:"minrange"`
	MaxRange  float64  `yaml:"maxrange"`
	Centroid  *float64 `yaml:"centroid,omitempty"`
}

func (u *GateUpdate) GetTime() float64 { return u.Time }

func (u *GateUpdate) LerpInto(out, next *GateUpdate, time, factor float64) {
	out.Time = time
	out.Azimuth = lerpAngle(u.Azimuth, next.Azimuth, factor)
	out.Elevation = lerpAnglePI(u.Elevation, next.Elevation, factor)
	// Non-positive sizes mean "use the beam width" and are not blended.
	out.Width = lerpPositive(u.Width, next.Width, factor)
	out.Height = lerpPositive(u.Height, next.Height, factor)
	out.MinRange = lerp(u.MinRange, next.MinRange, factor)
	out.MaxRange = lerp(u.MaxRange, next.MaxRange, factor)
	switch {
	case u.Centroid != nil && next.Centroid != nil:
		out.Centroid = Ptr(lerp(*u.Centroid, *next.Centroid, factor))
	default:
		out.Centroid = nil
	}
}

type LaserUpdate struct {
	Time  float64 `yaml:"time"`
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
	Roll  float64 `yaml:"roll"`
}

func (u *LaserUpdate) GetTime() float64 { return u.Time }

func (u *LaserUpdate) LerpInto(out, next *LaserUpdate, time, factor float64) {
	out.Time = time
	out.Yaw = lerpAngle(u.Yaw, next.Yaw, factor)
	out.Pitch = lerpAnglePI(u.Pitch, next.Pitch, factor)
	out.Roll = lerpAnglePI(u.Roll, next.Roll, factor)
}

// ProjectorUpdate carries the projector field of view in radians.
type ProjectorUpdate struct {
	Time float64 `yaml:"time"`
	Fov  float64 `yaml:"fov"`
	HFov float64 `yaml:"hfov"`
}

func (u *ProjectorUpdate) GetTime() float64 { return u.Time }

func (u *ProjectorUpdate) LerpInto(out, next *ProjectorUpdate, time, factor float64) {
	out.Time = time
	out.Fov = lerp(u.Fov, next.Fov, factor)
	out.HFov = lerp(u.HFov, next.HFov, factor)
}

// LobPoint is one line of bearing.
type LobPoint struct {
	Time      float64 `yaml:"time"`
	Azimuth   float64 `yaml:"azimuth"`
	Elevation float64 `yaml:"elevation"`
	Range     float64 `yaml:"range"`
}

// LobGroupUpdate is a batch of lines of bearing sharing one time. Lob
// groups are never interpolated.
type LobGroupUpdate struct {
	Time   float64    `yaml:"time"`
	Points []LobPoint `yaml:"points"`
}

func (u *LobGroupUpdate) GetTime() float64 { return u.Time }

// GenericEntry is one key/value pair of generic data.
type GenericEntry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// GenericData is a set of key/value pairs stamped at Time. A negative
// Duration means the entries never expire.
type GenericData struct {
	Time     float64        `yaml:"time"`
	Duration float64        `yaml:"duration"`
	Entries  []GenericEntry `yaml:"entries"`
}

func (g *GenericData) GetTime() float64 { return g.Time }

// CategoryEntry is one name/value tag of category data.
type CategoryEntry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// CategoryData tags an entity with category values from Time onward.
type CategoryData struct {
	Time    float64         `yaml:"time"`
	Entries []CategoryEntry `yaml:"entries"`
}

func (c *CategoryData) GetTime() float64 { return c.Time }
