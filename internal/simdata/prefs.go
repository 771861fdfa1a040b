package simdata

// Preference records use pointer fields so that an unset field can be told
// apart from one explicitly set to its zero value. Merge copies only set
// fields; Get accessors fall back to the type default.

// LabelPrefs controls the entity label.
type LabelPrefs struct {
	Draw            *bool   `yaml:"draw,omitempty"`
	Color           *uint32 `yaml:"color,omitempty"`
	OverlayFontSize *int32  `yaml:"overlayfontsize,omitempty"`
	OffsetX         *int32  `yaml:"offsetx,omitempty"`
	OffsetY         *int32  `yaml:"offsety,omitempty"`
}

func (p *LabelPrefs) GetDraw() bool {
	if p == nil || p.Draw == nil {
		return false
	}
	return *p.Draw
}

func (p *LabelPrefs) GetColor() uint32 {
	if p == nil || p.Color == nil {
		return 0xFFFF00FF
	}
	return *p.Color
}

func (p *LabelPrefs) GetOverlayFontSize() int32 {
	if p == nil || p.OverlayFontSize == nil {
		return 14
	}
	return *p.OverlayFontSize
}

func (p *LabelPrefs) GetOffsetX() int32 {
	if p == nil || p.OffsetX == nil {
		return 0
	}
	return *p.OffsetX
}

func (p *LabelPrefs) GetOffsetY() int32 {
	if p == nil || p.OffsetY == nil {
		return 0
	}
	return *p.OffsetY
}

// TrackPrefs controls the platform history trail.
type TrackPrefs struct {
	TrackLength     *int32   `yaml:"tracklength,omitempty"`
	TrackColor      *uint32  `yaml:"trackcolor,omitempty"`
	MultiTrackColor *bool    `yaml:"multitrackcolor,omitempty"`
	LineWidth       *float64 `yaml:"linewidth,omitempty"`
}

func (p *TrackPrefs) GetTrackLength() int32 {
	if p == nil || p.TrackLength == nil {
		return 30
	}
	return *p.TrackLength
}

func (p *TrackPrefs) GetTrackColor() uint32 {
	if p == nil || p.TrackColor == nil {
		return 0xFFFFFFFF
	}
	return *p.TrackColor
}

func (p *TrackPrefs) GetMultiTrackColor() bool {
	if p == nil || p.MultiTrackColor == nil {
		return true
	}
	return *p.MultiTrackColor
}

func (p *TrackPrefs) GetLineWidth() float64 {
	if p == nil || p.LineWidth == nil {
		return 1.0
	}
	return *p.LineWidth
}

// CommonPrefs holds the preferences shared by every entity type.
type CommonPrefs struct {
	LabelPrefs         *LabelPrefs `yaml:"labelprefs,omitempty"`
	DataDraw           *bool       `yaml:"datadraw,omitempty"`
	Draw               *bool       `yaml:"draw,omitempty"`
	Name               *string     `yaml:"name,omitempty"`
	UseAlias           *bool       `yaml:"usealias,omitempty"`
	Alias              *string     `yaml:"alias,omitempty"`
	Color              *uint32     `yaml:"color,omitempty"`
	UseOverrideColor   *bool       `yaml:"useoverridecolor,omitempty"`
	OverrideColor      *uint32     `yaml:"overridecolor,omitempty"`
	DataLimitTime      *float64    `yaml:"datalimittime,omitempty"`
	DataLimitPoints    *uint32     `yaml:"datalimitpoints,omitempty"`
	IncludeInLegend    *bool       `yaml:"includeinlegend,omitempty"`
	AcceptProjectorIDs []uint64    `yaml:"acceptprojectorids,omitempty"`
}

func (p *CommonPrefs) GetLabelPrefs() *LabelPrefs {
	if p == nil {
		return nil
	}
	return p.LabelPrefs
}

// MutableLabelPrefs returns the sub-record, allocating it when unset.
func (p *CommonPrefs) MutableLabelPrefs() *LabelPrefs {
	if p.LabelPrefs == nil {
		p.LabelPrefs = &LabelPrefs{}
	}
	return p.LabelPrefs
}

func (p *CommonPrefs) GetDataDraw() bool {
	if p == nil || p.DataDraw == nil {
		return true
	}
	return *p.DataDraw
}

func (p *CommonPrefs) GetDraw() bool {
	if p == nil || p.Draw == nil {
		return true
	}
	return *p.Draw
}

func (p *CommonPrefs) GetName() string {
	if p == nil || p.Name == nil {
		return "entity"
	}
	return *p.Name
}

func (p *CommonPrefs) GetUseAlias() bool {
	if p == nil || p.UseAlias == nil {
		return false
	}
	return *p.UseAlias
}

func (p *CommonPrefs) GetAlias() string {
	if p == nil || p.Alias == nil {
		return ""
	}
	return *p.Alias
}

func (p *CommonPrefs) GetColor() uint32 {
	if p == nil || p.Color == nil {
		return 0xFFFF00FF
	}
	return *p.Color
}

func (p *CommonPrefs) GetUseOverrideColor() bool {
	if p == nil || p.UseOverrideColor == nil {
		return false
	}
	return *p.UseOverrideColor
}

func (p *CommonPrefs) GetOverrideColor() uint32 {
	if p == nil || p.OverrideColor == nil {
		return 0xFF0000FF
	}
	return *p.OverrideColor
}

func (p *CommonPrefs) GetDataLimitTime() float64 {
	if p == nil || p.DataLimitTime == nil {
		return -1.0
	}
	return *p.DataLimitTime
}

func (p *CommonPrefs) GetDataLimitPoints() uint32 {
	if p == nil || p.DataLimitPoints == nil {
		return 1000
	}
	return *p.DataLimitPoints
}

func (p *CommonPrefs) GetIncludeInLegend() bool {
	if p == nil || p.IncludeInLegend == nil {
		return false
	}
	return *p.IncludeInLegend
}

func (p *CommonPrefs) GetAcceptProjectorIDs() []uint64 {
	if p == nil {
		return nil
	}
	return p.AcceptProjectorIDs
}

type PlatformPrefs struct {
	CommonPrefs     *CommonPrefs `yaml:"commonprefs,omitempty"`
	TrackPrefs      *TrackPrefs  `yaml:"trackprefs,omitempty"`
	Icon            *string      `yaml:"icon,omitempty"`
	Scale           *float64     `yaml:"scale,omitempty"`
	Lighted         *bool        `yaml:"lighted,omitempty"`
	DrawBox         *bool        `yaml:"drawbox,omitempty"`
	DrawBodyAxis    *bool        `yaml:"drawbodyaxis,omitempty"`
	UseClampAlt     *bool        `yaml:"useclampalt,omitempty"`
	ClampValAltMin  *float64     `yaml:"clampvalaltmin,omitempty"`
	ClampValAltMax  *float64     `yaml:"clampvalaltmax,omitempty"`
	SurfaceClamping *bool        `yaml:"surfaceclamping,omitempty"`
	InterpolatePos  *bool        `yaml:"interpolatepos,omitempty"`
	ExtrapolatePos  *bool        `yaml:"extrapolatepos,omitempty"`
}

func (p *PlatformPrefs) GetCommonPrefs() *CommonPrefs {
	if p == nil {
		return nil
	}
	return p.CommonPrefs
}

// MutableCommonPrefs returns the sub-record, allocating it when unset.
func (p *PlatformPrefs) MutableCommonPrefs() *CommonPrefs {
	if p.CommonPrefs == nil {
		p.CommonPrefs = &CommonPrefs{}
	}
	return p.CommonPrefs
}

func (p *PlatformPrefs) GetTrackPrefs() *TrackPrefs {
	if p == nil {
		return nil
	}
	return p.TrackPrefs
}

// MutableTrackPrefs returns the sub-record, allocating it when unset.
func (p *PlatformPrefs) MutableTrackPrefs() *TrackPrefs {
	if p.TrackPrefs == nil {
		p.TrackPrefs = &TrackPrefs{}
	}
	return p.TrackPrefs
}

func (p *PlatformPrefs) GetIcon() string {
	if p == nil || p.Icon == nil {
		return ""
	}
	return *p.Icon
}

func (p *PlatformPrefs) GetScale() float64 {
	if p == nil || p.Scale == nil {
		return 1.0
	}
	return *p.Scale
}

func (p *PlatformPrefs) GetLighted() bool {
	if p == nil || p.Lighted == nil {
		return true
	}
	return *p.Lighted
}

func (p *PlatformPrefs) GetDrawBox() bool {
	if p == nil || p.DrawBox == nil {
		return false
	}
	return *p.DrawBox
}

func (p *PlatformPrefs) GetDrawBodyAxis() bool {
	if p == nil || p.DrawBodyAxis == nil {
		return false
	}
	return *p.DrawBodyAxis
}

func (p *PlatformPrefs) GetUseClampAlt() bool {
	if p == nil || p.UseClampAlt == nil {
		return false
	}
	return *p.UseClampAlt
}

func (p *PlatformPrefs) GetClampValAltMin() float64 {
	if p == nil || p.ClampValAltMin == nil {
		return -100000.0
	}
	return *p.ClampValAltMin
}

func (p *PlatformPrefs) GetClampValAltMax() float64 {
	if p == nil || p.ClampValAltMax == nil {
		return 1000000000.0
	}
	return *p.ClampValAltMax
}

func (p *PlatformPrefs) GetSurfaceClamping() bool {
	if p == nil || p.SurfaceClamping == nil {
		return false
	}
	return *p.SurfaceClamping
}

func (p *PlatformPrefs) GetInterpolatePos() bool {
	if p == nil || p.InterpolatePos == nil {
		return true
	}
	return *p.InterpolatePos
}

func (p *PlatformPrefs) GetExtrapolatePos() bool {
	if p == nil || p.ExtrapolatePos == nil {
		return false
	}
	return *p.ExtrapolatePos
}

type BeamPrefs struct {
	CommonPrefs        *CommonPrefs `yaml:"commonprefs,omitempty"`
	Shaded             *bool        `yaml:"shaded,omitempty"`
	Blended            *bool        `yaml:"blended,omitempty"`
	BeamScale          *float64     `yaml:"beamscale,omitempty"`
	Gain               *float64     `yaml:"gain,omitempty"`
	Sensitivity        *float64     `yaml:"sensitivity,omitempty"`
	InterpolateBeamPos *bool        `yaml:"interpolatebeampos,omitempty"`
	UseOffsetPlatform  *bool        `yaml:"useoffsetplatform,omitempty"`
	AzimuthOffset      *float64     `yaml:"azimuthoffset,omitempty"`
	ElevationOffset    *float64     `yaml:"elevationoffset,omitempty"`
	TargetID           *uint64      `yaml:"targetid,omitempty"`
	VerticalWidth      *float64     `yaml:"verticalwidth,omitempty"`
	HorizontalWidth    *float64     `yaml:"horizontalwidth,omitempty"`
}

func (p *BeamPrefs) GetCommonPrefs() *CommonPrefs {
	if p == nil {
		return nil
	}
	return p.CommonPrefs
}

// MutableCommonPrefs returns the sub-record, allocating it when unset.
func (p *BeamPrefs) MutableCommonPrefs() *CommonPrefs {
	if p.CommonPrefs == nil {
		p.CommonPrefs = &CommonPrefs{}
	}
	return p.CommonPrefs
}

func (p *BeamPrefs) GetShaded() bool {
	if p == nil || p.Shaded == nil {
		return false
	}
	return *p.Shaded
}

func (p *BeamPrefs) GetBlended() bool {
	if p == nil || p.Blended == nil {
		return true
	}
	return *p.Blended
}

func (p *BeamPrefs) GetBeamScale() float64 {
	if p == nil || p.BeamScale == nil {
		return 1.0
	}
	return *p.BeamScale
}

func (p *BeamPrefs) GetGain() float64 {
	if p == nil || p.Gain == nil {
		return 20.0
	}
	return *p.Gain
}

func (p *BeamPrefs) GetSensitivity() float64 {
	if p == nil || p.Sensitivity == nil {
		return -50.0
	}
	return *p.Sensitivity
}

func (p *BeamPrefs) GetInterpolateBeamPos() bool {
	if p == nil || p.InterpolateBeamPos == nil {
		return true
	}
	return *p.InterpolateBeamPos
}

func (p *BeamPrefs) GetUseOffsetPlatform() bool {
	if p == nil || p.UseOffsetPlatform == nil {
		return true
	}
	return *p.UseOffsetPlatform
}

func (p *BeamPrefs) GetAzimuthOffset() float64 {
	if p == nil || p.AzimuthOffset == nil {
		return 0.0
	}
	return *p.AzimuthOffset
}

func (p *BeamPrefs) GetElevationOffset() float64 {
	if p == nil || p.ElevationOffset == nil {
		return 0.0
	}
	return *p.ElevationOffset
}

func (p *BeamPrefs) GetTargetID() uint64 {
	if p == nil || p.TargetID == nil {
		return 0
	}
	return *p.TargetID
}

func (p *BeamPrefs) GetVerticalWidth() float64 {
	if p == nil || p.VerticalWidth == nil {
		return 0.0
	}
	return *p.VerticalWidth
}

func (p *BeamPrefs) GetHorizontalWidth() float64 {
	if p == nil || p.HorizontalWidth == nil {
		return 0.0
	}
	return *p.HorizontalWidth
}

type GatePrefs struct {
	CommonPrefs         *CommonPrefs `yaml:"commonprefs,omitempty"`
	GateLighting        *bool        `yaml:"gatelighting,omitempty"`
	GateBlending        *bool        `yaml:"gateblending,omitempty"`
	DrawCentroid        *bool        `yaml:"drawcentroid,omitempty"`
	InterpolateGatePos  *bool        `yaml:"interpolategatepos,omitempty"`
	GateAzimuthOffset   *float64     `yaml:"gateazimuthoffset,omitempty"`
	GateElevationOffset *float64     `yaml:"gateelevationoffset,omitempty"`
	DrawOutline         *bool        `yaml:"drawoutline,omitempty"`
	CentroidColor       *uint32      `yaml:"centroidcolor,omitempty"`
}

func (p *GatePrefs) GetCommonPrefs() *CommonPrefs {
	if p == nil {
		return nil
	}
	return p.CommonPrefs
}

// MutableCommonPrefs returns the sub-record, allocating it when unset.
func (p *GatePrefs) MutableCommonPrefs() *CommonPrefs {
	if p.CommonPrefs == nil {
		p.CommonPrefs = &CommonPrefs{}
	}
	return p.CommonPrefs
}

func (p *GatePrefs) GetGateLighting() bool {
	if p == nil || p.GateLighting == nil {
		return false
	}
	return *p.GateLighting
}

func (p *GatePrefs) GetGateBlending() bool {
	if p == nil || p.GateBlending == nil {
		return true
	}
	return *p.GateBlending
}

func (p *GatePrefs) GetDrawCentroid() bool {
	if p == nil || p.DrawCentroid == nil {
		return true
	}
	return *p.DrawCentroid
}

func (p *GatePrefs) GetInterpolateGatePos() bool {
	if p == nil || p.InterpolateGatePos == nil {
		return true
	}
	return *p.InterpolateGatePos
}

func (p *GatePrefs) GetGateAzimuthOffset() float64 {
	if p == nil || p.GateAzimuthOffset == nil {
		return 0.0
	}
	return *p.GateAzimuthOffset
}

func (p *GatePrefs) GetGateElevationOffset() float64 {
	if p == nil || p.GateElevationOffset == nil {
		return 0.0
	}
	return *p.GateElevationOffset
}

func (p *GatePrefs) GetDrawOutline() bool {
	if p == nil || p.DrawOutline == nil {
		return true
	}
	return *p.DrawOutline
}

func (p *GatePrefs) GetCentroidColor() uint32 {
	if p == nil || p.CentroidColor == nil {
		return 0xFFFFFFFF
	}
	return *p.CentroidColor
}

type LaserPrefs struct {
	CommonPrefs *CommonPrefs `yaml:"commonprefs,omitempty"`
	MaxRange    *float64     `yaml:"maxrange,omitempty"`
	LaserWidth  *int32       `yaml:"laserwidth,omitempty"`
}

func (p *LaserPrefs) GetCommonPrefs() *CommonPrefs {
	if p == nil {
		return nil
	}
	return p.CommonPrefs
}

// MutableCommonPrefs returns the sub-record, allocating it when unset.
func (p *LaserPrefs) MutableCommonPrefs() *CommonPrefs {
	if p.CommonPrefs == nil {
		p.CommonPrefs = &CommonPrefs{}
	}
	return p.CommonPrefs
}

func (p *LaserPrefs) GetMaxRange() float64 {
	if p == nil || p.MaxRange == nil {
		return 1000000.0
	}
	return *p.MaxRange
}

func (p *LaserPrefs) GetLaserWidth() int32 {
	if p == nil || p.LaserWidth == nil {
		return 1
	}
	return *p.LaserWidth
}

type ProjectorPrefs struct {
	CommonPrefs             *CommonPrefs `yaml:"commonprefs,omitempty"`
	ShowFrustum             *bool        `yaml:"showfrustum,omitempty"`
	ProjectorAlpha          *float64     `yaml:"projectoralpha,omitempty"`
	InterpolateProjectorFov *bool        `yaml:"interpolateprojectorfov,omitempty"`
	OverrideFov             *bool        `yaml:"overridefov,omitempty"`
	OverrideFovAngle        *float64     `yaml:"overridefovangle,omitempty"`
	MaxDrawRange            *float64     `yaml:"maxdrawrange,omitempty"`
}

func (p *ProjectorPrefs) GetCommonPrefs() *CommonPrefs {
	if p == nil {
		return nil
	}
	return p.CommonPrefs
}

// MutableCommonPrefs returns the sub-record, allocating it when unset.
func (p *ProjectorPrefs) MutableCommonPrefs() *CommonPrefs {
	if p.CommonPrefs == nil {
		p.CommonPrefs = &CommonPrefs{}
	}
	return p.CommonPrefs
}

func (p *ProjectorPrefs) GetShowFrustum() bool {
	if p == nil || p.ShowFrustum == nil {
		return false
	}
	return *p.ShowFrustum
}

func (p *ProjectorPrefs) GetProjectorAlpha() float64 {
	if p == nil || p.ProjectorAlpha == nil {
		return 1.0
	}
	return *p.ProjectorAlpha
}

func (p *ProjectorPrefs) GetInterpolateProjectorFov() bool {
	if p == nil || p.InterpolateProjectorFov == nil {
		return true
	}
	return *p.InterpolateProjectorFov
}

func (p *ProjectorPrefs) GetOverrideFov() bool {
	if p == nil || p.OverrideFov == nil {
		return false
	}
	return *p.OverrideFov
}

func (p *ProjectorPrefs) GetOverrideFovAngle() float64 {
	if p == nil || p.OverrideFovAngle == nil {
		return 0.174533
	}
	return *p.OverrideFovAngle
}

func (p *ProjectorPrefs) GetMaxDrawRange() float64 {
	if p == nil || p.MaxDrawRange == nil {
		return 0.0
	}
	return *p.MaxDrawRange
}

type LobGroupPrefs struct {
	CommonPrefs        *CommonPrefs `yaml:"commonprefs,omitempty"`
	LobWidth           *int32       `yaml:"lobwidth,omitempty"`
	Color1             *uint32      `yaml:"color1,omitempty"`
	Color2             *uint32      `yaml:"color2,omitempty"`
	Stipple1           *uint32      `yaml:"stipple1,omitempty"`
	Stipple2           *uint32      `yaml:"stipple2,omitempty"`
	MaxDataSeconds     *float64     `yaml:"maxdataseconds,omitempty"`
	MaxDataPoints      *uint32      `yaml:"maxdatapoints,omitempty"`
	UseRangeOverride   *bool        `yaml:"userangeoverride,omitempty"`
	RangeOverrideValue *float64     `yaml:"rangeoverridevalue,omitempty"`
}

func (p *LobGroupPrefs) GetCommonPrefs() *CommonPrefs {
	if p == nil {
		return nil
	}
	return p.CommonPrefs
}

// MutableCommonPrefs returns the sub-record, allocating it when unset.
func (p *LobGroupPrefs) MutableCommonPrefs() *CommonPrefs {
	if p.CommonPrefs == nil {
		p.CommonPrefs = &CommonPrefs{}
	}
	return p.CommonPrefs
}

func (p *LobGroupPrefs) GetLobWidth() int32 {
	if p == nil || p.LobWidth == nil {
		return 2
	}
	return *p.LobWidth
}

func (p *LobGroupPrefs) GetColor1() uint32 {
	if p == nil || p.Color1 == nil {
		return 0x00FF00FF
	}
	return *p.Color1
}

func (p *LobGroupPrefs) GetColor2() uint32 {
	if p == nil || p.Color2 == nil {
		return 0xFF0000FF
	}
	return *p.Color2
}

func (p *LobGroupPrefs) GetStipple1() uint32 {
	if p == nil || p.Stipple1 == nil {
		return 0xFF00
	}
	return *p.Stipple1
}

func (p *LobGroupPrefs) GetStipple2() uint32 {
	if p == nil || p.Stipple2 == nil {
		return 0x00FF
	}
	return *p.Stipple2
}

func (p *LobGroupPrefs) GetMaxDataSeconds() float64 {
	if p == nil || p.MaxDataSeconds == nil {
		return 5.0
	}
	return *p.MaxDataSeconds
}

func (p *LobGroupPrefs) GetMaxDataPoints() uint32 {
	if p == nil || p.MaxDataPoints == nil {
		return 10
	}
	return *p.MaxDataPoints
}

func (p *LobGroupPrefs) GetUseRangeOverride() bool {
	if p == nil || p.UseRangeOverride == nil {
		return false
	}
	return *p.UseRangeOverride
}

func (p *LobGroupPrefs) GetRangeOverrideValue() float64 {
	if p == nil || p.RangeOverrideValue == nil {
		return 1000.0
	}
	return *p.RangeOverrideValue
}

type CustomRenderingPrefs struct {
	CommonPrefs    *CommonPrefs `yaml:"commonprefs,omitempty"`
	Persistence    *float64     `yaml:"persistence,omitempty"`
	SecondsHistory *float64     `yaml:"secondshistory,omitempty"`
	PointsHistory  *uint32      `yaml:"pointshistory,omitempty"`
	Outline        *bool        `yaml:"outline,omitempty"`
	DepthTest      *bool        `yaml:"depthtest,omitempty"`
}

func (p *CustomRenderingPrefs) GetCommonPrefs() *CommonPrefs {
	if p == nil {
		return nil
	}
	return p.CommonPrefs
}

// MutableCommonPrefs returns the sub-record, allocating it when unset.
func (p *CustomRenderingPrefs) MutableCommonPrefs() *CommonPrefs {
	if p.CommonPrefs == nil {
		p.CommonPrefs = &CommonPrefs{}
	}
	return p.CommonPrefs
}

func (p *CustomRenderingPrefs) GetPersistence() float64 {
	if p == nil || p.Persistence == nil {
		return 5.0
	}
	return *p.Persistence
}

func (p *CustomRenderingPrefs) GetSecondsHistory() float64 {
	if p == nil || p.SecondsHistory == nil {
		return 5.0
	}
	return *p.SecondsHistory
}

func (p *CustomRenderingPrefs) GetPointsHistory() uint32 {
	if p == nil || p.PointsHistory == nil {
		return 0
	}
	return *p.PointsHistory
}

func (p *CustomRenderingPrefs) GetOutline() bool {
	if p == nil || p.Outline == nil {
		return false
	}
	return *p.Outline
}

func (p *CustomRenderingPrefs) GetDepthTest() bool {
	if p == nil || p.DepthTest == nil {
		return true
	}
	return *p.DepthTest
}
