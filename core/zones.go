package core

// ZoneAction is the enforcement consequence of entering a geofence.
type ZoneAction string

const (
	ActionReject ZoneAction = "reject" // containment is a hard violation
	ActionWarn   ZoneAction = "warn"   // containment is advisory only
	ActionAllow  ZoneAction = "allow"  // containment never flags
)

// ConstraintDimension identifies which evaluation routine produced a
// result. Dimensions are an explicit enum selected by configuration,
// never inferred from zone-ID naming conventions.
type ConstraintDimension string

const (
	DimensionGeofence   ConstraintDimension = "geofence"
	DimensionAltitude   ConstraintDimension = "altitude"
	DimensionSpeed      ConstraintDimension = "speed"
	DimensionTimeWindow ConstraintDimension = "time_window"
	DimensionVLOS       ConstraintDimension = "vlos"
	DimensionDrop       ConstraintDimension = "drop"
	DimensionPayload    ConstraintDimension = "payload"
	DimensionSeparation ConstraintDimension = "separation"
	DimensionTimeline   ConstraintDimension = "timeline"
)

// TimeRestriction scopes a geofence (typically a TFR) to an absolute
// activation interval. Timestamps are ISO-8601 strings; they are kept
// as strings so that an unparsable restriction can still be carried
// through and resolved conservatively at evaluation time.
type TimeRestriction struct {
	ActiveStart string `json:"active_start"`
	ActiveEnd   string `json:"active_end"`
	Type        string `json:"type,omitempty"`
}

// GeofenceZone is a spherical keep-out region with a safety margin and
// an enforcement action.
type GeofenceZone struct {
	ID           string     `json:"id"`
	Name         string     `json:"name,omitempty"`
	Center       Position   `json:"center"`
	Radius       float64    `json:"radius"`
	SafetyMargin float64    `json:"safety_margin"`
	Action       ZoneAction `json:"action"`
	// ZoneType is a free-form classification ("obstacle", "airport",
	// "tfr", ...). A warn zone typed "obstacle" escalates the decision
	// to APPROVE_WITH_STOP on entry.
	ZoneType string `json:"zone_type,omitempty"`
	// Priority orders evaluation; lower numbers are checked first.
	Priority    int              `json:"priority,omitempty"`
	Restriction *TimeRestriction `json:"time_restriction,omitempty"`
}

// RestrictedRadius is the effective keep-out distance: anything closer
// than radius + margin counts as containment. Distance exactly equal to
// the restricted radius is safe.
func (z GeofenceZone) RestrictedRadius() float64 {
	return z.Radius + z.SafetyMargin
}

// Contains reports whether p lies strictly inside the restricted
// radius (3D distance).
func (z GeofenceZone) Contains(p Position) bool {
	return Distance3D(p, z.Center) < z.RestrictedRadius()
}

// AltitudeZone caps altitude over a horizontal circle. A negative
// radius marks the infinite catch-all zone covering everything outside
// the finite zones.
type AltitudeZone struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Center   Position `json:"center"`
	Radius   float64  `json:"radius"` // < 0 means infinite extent
	LimitAGL float64  `json:"altitude_limit_agl"`
	Priority int      `json:"priority"`
}

// Contains reports whether the horizontal projection of p lies within
// the zone. The infinite zone contains every point.
func (z AltitudeZone) Contains(p Position) bool {
	if z.Radius < 0 {
		return true
	}
	return Distance2D(p, z.Center) <= z.Radius
}

// StructureWaiver raises the altitude limit near a tall structure:
// within WaiverRadius of the structure, flight up to the structure
// height plus the waiver allowance is permitted regardless of the
// governing altitude zone or global limit.
type StructureWaiver struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name,omitempty"`
	Location            Position `json:"location"` // down component ignored
	HeightAGL           float64  `json:"height_agl"`
	WaiverRadius        float64  `json:"waiver_radius"`
	WaiverAltitudeAbove float64  `json:"waiver_altitude_above_structure"`
}

// TotalWaiverAltitude is the effective limit under the waiver.
func (w StructureWaiver) TotalWaiverAltitude() float64 {
	return w.HeightAGL + w.WaiverAltitudeAbove
}

// Covers reports whether p is horizontally within the waiver radius.
func (w StructureWaiver) Covers(p Position) bool {
	return Distance2D(p, w.Location) <= w.WaiverRadius
}

// CylinderShape is the shared horizontal-circle-plus-vertical-band
// shape of speed and time-window zones. Global zones contain every
// position. The vertical band is expressed in down coordinates with
// exclusive bounds, matching the recorded scenario data.
type CylinderShape struct {
	Global        bool     `json:"global"`
	Center        Position `json:"center"`
	Radius        float64  `json:"radius"`
	HeightMinDown float64  `json:"height_min"`
	HeightMaxDown float64  `json:"height_max"`
}

// Contains reports whether p lies inside the cylinder.
func (c CylinderShape) Contains(p Position) bool {
	if c.Global {
		return true
	}
	if Distance2D(p, c.Center) > c.Radius {
		return false
	}
	return c.HeightMinDown < p.Down && p.Down < c.HeightMaxDown
}

// IntersectsSegment reports whether any point of segment a→b lies
// inside the cylinder. Horizontal proximity uses the closed-form
// point-segment distance; the vertical band is checked against the
// segment's down range. This slightly over-approximates for steep
// segments that clip the cylinder corner, which is the conservative
// direction.
func (c CylinderShape) IntersectsSegment(a, b Position) bool {
	if c.Global {
		return true
	}
	if PointSegmentDistance2D(c.Center, a, b) > c.Radius {
		return false
	}
	lo, hi := a.Down, b.Down
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo < c.HeightMaxDown && hi > c.HeightMinDown
}

// SpeedZone imposes a speed limit inside its shape. Limits are
// canonical m/s; the scenario loader converts km/h on the way in.
type SpeedZone struct {
	ID       string        `json:"id"`
	Name     string        `json:"name,omitempty"`
	Shape    CylinderShape `json:"shape"`
	LimitMS  float64       `json:"speed_limit_ms"`
	Priority int           `json:"priority"`
	Enabled  bool          `json:"enabled"`
}

// TimeWindowZone restricts flight inside its shape during a recurring
// daily HH:MM window (which may wrap past midnight).
type TimeWindowZone struct {
	ID              string        `json:"id"`
	Name            string        `json:"name,omitempty"`
	Shape           CylinderShape `json:"shape"`
	WindowStart     string        `json:"window_start"` // HH:MM
	WindowEnd       string        `json:"window_end"`   // HH:MM
	RestrictionType string        `json:"restriction_type"`
	Priority        int           `json:"priority"`
	Enabled         bool          `json:"enabled"`
}

// VLOSCheckMethod selects how operator-to-target distance is measured.
type VLOSCheckMethod string

const (
	VLOSHorizontal VLOSCheckMethod = "horizontal"
	VLOS3D         VLOSCheckMethod = "3d"
)

// VLOSConfig is the visual-line-of-sight envelope around the operator.
type VLOSConfig struct {
	Enabled          bool            `json:"enabled"`
	OperatorPosition Position        `json:"operator_position"`
	MaxRange         float64         `json:"max_vlos_range_m"`
	CheckMethod      VLOSCheckMethod `json:"check_method"`
}

// BVLOSWaiverType enumerates the waiver mechanisms that extend flight
// beyond the VLOS envelope.
type BVLOSWaiverType string

const (
	WaiverVisualObserver BVLOSWaiverType = "visual_observer"
	WaiverTechnicalMeans BVLOSWaiverType = "technical_means"
	WaiverSpecialPermit  BVLOSWaiverType = "special_permit"
)

// BVLOSWaiver extends the permitted range beyond VLOS. A visual
// observer covers targets near the observer's own position; technical
// means and special permits cover targets within their effective range
// of the operator.
type BVLOSWaiver struct {
	ID                string          `json:"id"`
	Type              BVLOSWaiverType `json:"type"`
	MaxEffectiveRange float64         `json:"max_effective_range_m"`
	ObserverPosition  Position        `json:"observer_position,omitempty"`
	ObserverVLOSRange float64         `json:"observer_vlos_range_m,omitempty"`
	PermitNumber      string          `json:"permit_number,omitempty"`
}

// DropZone classifies ground areas for payload release. Crowd zones
// are an absolute prohibition that no approval overrides.
type DropZone struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	ZoneType string   `json:"zone_type"` // urban / rural / agricultural / crowd
	Center   Position `json:"center"`
	Radius   float64  `json:"radius"`

	DropProhibited          bool `json:"drop_prohibited"`
	DropAllowedWithApproval bool `json:"drop_allowed_with_approval"`
	DropAllowed             bool `json:"drop_allowed"`
}

// Contains reports whether p is horizontally within the zone. Drop
// zone containment is boundary-inclusive.
func (z DropZone) Contains(p Position) bool {
	return Distance2D(p, z.Center) <= z.Radius
}

// ControlledZone marks controlled airspace for the approval-timeline
// check; flights outside every controlled zone and below the ceiling
// are exempt from advance-application requirements.
type ControlledZone struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Center Position `json:"center"`
	Radius float64  `json:"radius"`
}

// Contains reports whether p is horizontally within the zone.
func (z ControlledZone) Contains(p Position) bool {
	return Distance2D(p, z.Center) <= z.Radius
}
