// core/scenario_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Scenario documents are JSONC: JSON plus // and /* */ comments, the
// format the recorded scenario library uses. The loader owns every
// unit conversion (km/h to m/s) and every default; the evaluators only
// ever see canonical units.

// ScenarioSummary is a small account of what was loaded, mainly for
// logging from main().
type ScenarioSummary struct {
	ScenarioID string
	ZoneCounts map[string]int
	Missions   []Mission
}

// internal JSON shapes – unexported so we're free to evolve them.
type scenarioJSON struct {
	ID string `json:"id"`

	Parameters *scenarioParamsJSON `json:"scenario_parameters"`

	Geofences       []geofenceJSON     `json:"geofences"`
	AltitudeZones   []altitudeZoneJSON `json:"altitude_zones"`
	Structures      []structureJSON    `json:"structures"`
	SpeedZones      []speedZoneJSON    `json:"speed_zones"`
	TimeWindowZones []timeWindowJSON   `json:"time_window_zones"`
	DropZones       []dropZoneJSON     `json:"drop_zones"`
	ControlledZones []controlledJSON   `json:"controlled_zones"`

	Payload *payloadJSON     `json:"payload_restrictions"`
	VLOS    *vlosJSON        `json:"vlos"`
	Waivers []bvlosJSON      `json:"bvlos_waivers"`
	Night   *nightJSON       `json:"night_flight"`
	Cases   []testCaseJSON   `json:"test_cases"`
}

type positionJSON struct {
	XYZ   string   `json:"xyz"` // "north east down", space separated
	North *float64 `json:"north"`
	East  *float64 `json:"east"`
	Down  *float64 `json:"down"`
}

func (p *positionJSON) toPosition() (Position, error) {
	if p == nil {
		return Position{}, nil
	}
	if p.XYZ != "" {
		parts := strings.Fields(p.XYZ)
		if len(parts) != 3 {
			return Position{}, fmt.Errorf("xyz %q must have three components", p.XYZ)
		}
		vals := make([]float64, 3)
		for i, s := range parts {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Position{}, fmt.Errorf("xyz %q: %v", p.XYZ, err)
			}
			vals[i] = v
		}
		return Position{North: vals[0], East: vals[1], Down: vals[2]}, nil
	}
	pos := Position{}
	if p.North != nil {
		pos.North = *p.North
	}
	if p.East != nil {
		pos.East = *p.East
	}
	if p.Down != nil {
		pos.Down = *p.Down
	}
	return pos, nil
}

type scenarioParamsJSON struct {
	AltitudeLimitAGL   *float64 `json:"altitude_limit_agl"`
	MaxSpeedKmh        *float64 `json:"max_speed_kmh"`
	ToleranceMarginKmh *float64 `json:"tolerance_margin_kmh"`
	MinSeparationM     *float64 `json:"min_separation_m"`
	MaxDronesPerOp     *int     `json:"max_drones_per_operator"`
	SwarmThreshold     *int     `json:"swarm_approval_threshold"`
	AdvanceHours       *float64 `json:"required_advance_hours"`
	ObstacleStopM      *float64 `json:"obstacle_stop_distance_m"`
}

type timeRestrictionJSON struct {
	ActiveStart string `json:"active_start"`
	ActiveEnd   string `json:"active_end"`
	Type        string `json:"type"`
}

type geofenceJSON struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Enabled      *bool                `json:"enabled"`
	Center       *positionJSON        `json:"center"`
	Radius       float64              `json:"radius"`
	SafetyMargin *float64             `json:"safety_margin"`
	Action       string               `json:"action"`
	ZoneType     string               `json:"zone_type"`
	Priority     *int                 `json:"priority"`
	Restriction  *timeRestrictionJSON `json:"time_restriction"`
}

type geometryJSON struct {
	Type   string        `json:"type"` // "circle" | "infinite"
	Center *positionJSON `json:"center"`
	Radius float64       `json:"radius"`
}

type altitudeZoneJSON struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Geometry geometryJSON `json:"geometry"`
	LimitAGL float64      `json:"altitude_limit_agl"`
	Priority int          `json:"priority"`
}

type structureJSON struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Location            *positionJSON `json:"location"`
	HeightAGL           float64       `json:"height_agl"`
	WaiverRadius        float64       `json:"waiver_radius"`
	WaiverAltitudeAbove float64       `json:"waiver_altitude_above_structure"`
}

type speedZoneJSON struct {
	ZoneID        string        `json:"zone_id"`
	ZoneType      string        `json:"zone_type"` // "cylinder" | "global"
	SpeedLimitKmh float64       `json:"speed_limit_kmh"`
	Priority      int           `json:"priority"`
	Enabled       *bool         `json:"enabled"`
	Center        *positionJSON `json:"center"`
	Radius        float64       `json:"radius"`
	HeightMin     *float64      `json:"height_min"`
	HeightMax     *float64      `json:"height_max"`
}

type timeWindowJSON struct {
	ZoneID          string        `json:"zone_id"`
	ZoneType        string        `json:"zone_type"`
	WindowStart     string        `json:"time_window_start"`
	WindowEnd       string        `json:"time_window_end"`
	RestrictionType string        `json:"restriction_type"`
	Priority        int           `json:"priority"`
	Enabled         *bool         `json:"enabled"`
	Center          *positionJSON `json:"center"`
	Radius          float64       `json:"radius"`
	HeightMin       *float64      `json:"height_min"`
	HeightMax       *float64      `json:"height_max"`
}

type dropZoneJSON struct {
	ZoneID                  string        `json:"zone_id"`
	Name                    string        `json:"name"`
	ZoneType                string        `json:"zone_type"`
	Center                  *positionJSON `json:"center"`
	Radius                  float64       `json:"radius"`
	DropProhibited          bool          `json:"drop_prohibited"`
	DropAllowedWithApproval bool          `json:"drop_allowed_with_approval"`
	DropAllowed             bool          `json:"drop_allowed"`
}

type controlledJSON struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Center *positionJSON `json:"center"`
	Radius float64       `json:"radius"`
}

type payloadJSON struct {
	MaxPayloadKg          *float64 `json:"max_payload_kg"`
	DropRequiresApproval  *bool    `json:"drop_requires_approval"`
	AgriculturalExemption *bool    `json:"agricultural_exemption"`
}

type vlosJSON struct {
	Enabled          *bool         `json:"enabled"`
	OperatorPosition *positionJSON `json:"operator_position"`
	MaxRangeM        float64       `json:"max_vlos_range_m"`
	CheckMethod      string        `json:"check_method"`
}

type bvlosJSON struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	Conditions bvlosConditionsJSON `json:"conditions"`
}

type bvlosConditionsJSON struct {
	MaxEffectiveRangeM *float64      `json:"max_effective_range_m"`
	ObserverPosition   *positionJSON `json:"observer_position"`
	ObserverVLOSRangeM *float64      `json:"observer_vlos_range_m"`
	PermitNumber       string        `json:"permit_number"`
}

type nightJSON struct {
	NightStart       string `json:"night_start"`
	NightEnd         string `json:"night_end"`
	LightingRequired *bool  `json:"lighting_required"`
	TrainingRequired *bool  `json:"training_required"`
}

type testCaseJSON struct {
	ID                string        `json:"id"`
	OperatorID        string        `json:"operator_id"`
	Start             *positionJSON `json:"start"`
	Target            *positionJSON `json:"target"`
	SimulatedTime     string        `json:"simulated_time"`
	SpeedMS           float64       `json:"speed_ms"`
	PayloadKg         float64       `json:"payload_kg"`
	DroneType         string        `json:"drone_type"`
	IncludeDrop       bool          `json:"include_drop"`
	HasDropApproval   bool          `json:"has_approval"`
	EnabledWaivers    []string      `json:"enabled_waivers"`
	NightTraining     bool          `json:"pilot_night_training"`
	AntiCollisionLite bool          `json:"anti_collision_light"`
	FlightType        string        `json:"flight_type"` // "normal" | "emergency"
	ApplicationTime   string        `json:"application_time"`
	PlannedFlightTime string        `json:"planned_flight_time"`
	SwarmApproved     bool          `json:"swarm_waiver_approved"`
}

// LoadScenario reads a JSONC scenario from r, fills the registry with
// its zones, applies scenario parameters onto the evaluator, and
// returns a summary including the test cases converted to missions.
//
// It fails only on JSON/structural errors; semantic problems (e.g. a
// duplicate zone ID) surface through the registry's own validation.
func LoadScenario(reg *ZoneRegistry, ev *Evaluator, r io.Reader) (*ScenarioSummary, error) {
	if reg == nil || ev == nil {
		return nil, fmt.Errorf("LoadScenario: nil registry or evaluator")
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("LoadScenario: read failed: %w", err)
	}

	var doc scenarioJSON
	if err := json.Unmarshal(StripJSONComments(raw), &doc); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	if doc.Parameters != nil {
		applyParams(ev, doc.Parameters)
	}
	if doc.Payload != nil {
		if doc.Payload.MaxPayloadKg != nil {
			ev.MaxPayloadKg = *doc.Payload.MaxPayloadKg
		}
		if doc.Payload.DropRequiresApproval != nil {
			ev.DropRequiresApproval = *doc.Payload.DropRequiresApproval
		}
		if doc.Payload.AgriculturalExemption != nil {
			ev.AgriculturalExemption = *doc.Payload.AgriculturalExemption
		}
	}
	if doc.Night != nil {
		if doc.Night.NightStart != "" {
			ev.Night.Start = doc.Night.NightStart
		}
		if doc.Night.NightEnd != "" {
			ev.Night.End = doc.Night.NightEnd
		}
		if doc.Night.LightingRequired != nil {
			ev.Night.LightingRequired = *doc.Night.LightingRequired
		}
		if doc.Night.TrainingRequired != nil {
			ev.Night.TrainingRequired = *doc.Night.TrainingRequired
		}
	}

	if err := loadZones(reg, &doc); err != nil {
		return nil, err
	}

	summary := &ScenarioSummary{
		ScenarioID: doc.ID,
		ZoneCounts: reg.Counts(),
	}
	for _, tc := range doc.Cases {
		m, err := missionFromTestCase(tc)
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: test case %q: %w", tc.ID, err)
		}
		summary.Missions = append(summary.Missions, m)
	}
	return summary, nil
}

func applyParams(ev *Evaluator, p *scenarioParamsJSON) {
	if p.AltitudeLimitAGL != nil {
		ev.GlobalAltitudeLimit = *p.AltitudeLimitAGL
	}
	if p.MaxSpeedKmh != nil {
		ev.GlobalSpeedLimitMS = *p.MaxSpeedKmh / 3.6
	}
	if p.ToleranceMarginKmh != nil {
		ev.SpeedToleranceMS = *p.ToleranceMarginKmh / 3.6
	}
	if p.MinSeparationM != nil {
		ev.MinSeparation = *p.MinSeparationM
	}
	if p.MaxDronesPerOp != nil {
		ev.MaxDronesPerOperator = *p.MaxDronesPerOp
	}
	if p.SwarmThreshold != nil {
		ev.SwarmApprovalThreshold = *p.SwarmThreshold
	}
	if p.AdvanceHours != nil {
		ev.RequiredAdvanceHours = *p.AdvanceHours
	}
	if p.ObstacleStopM != nil {
		ev.ObstacleStopDistance = *p.ObstacleStopM
	}
}

func loadZones(reg *ZoneRegistry, doc *scenarioJSON) error {
	for _, gf := range doc.Geofences {
		if gf.Enabled != nil && !*gf.Enabled {
			continue
		}
		center, err := gf.Center.toPosition()
		if err != nil {
			return fmt.Errorf("geofence %q: %w", gf.ID, err)
		}
		margin := 500.0 // scenario library default
		if gf.SafetyMargin != nil {
			margin = *gf.SafetyMargin
		}
		action := ZoneAction(gf.Action)
		if action == "" {
			action = ActionReject
		}
		priority := 1
		if gf.Priority != nil {
			priority = *gf.Priority
		}
		zone := &GeofenceZone{
			ID:           gf.ID,
			Name:         gf.Name,
			Center:       center,
			Radius:       gf.Radius,
			SafetyMargin: margin,
			Action:       action,
			ZoneType:     gf.ZoneType,
			Priority:     priority,
		}
		if gf.Restriction != nil {
			zone.Restriction = &TimeRestriction{
				ActiveStart: gf.Restriction.ActiveStart,
				ActiveEnd:   gf.Restriction.ActiveEnd,
				Type:        gf.Restriction.Type,
			}
		}
		if err := reg.AddGeofence(zone); err != nil {
			return err
		}
	}

	for _, az := range doc.AltitudeZones {
		radius := az.Geometry.Radius
		if az.Geometry.Type == "infinite" {
			radius = -1
		}
		center, err := az.Geometry.Center.toPosition()
		if err != nil {
			return fmt.Errorf("altitude zone %q: %w", az.ID, err)
		}
		center.Down = 0 // zones are horizontal only
		if err := reg.AddAltitudeZone(&AltitudeZone{
			ID:       az.ID,
			Name:     az.Name,
			Center:   center,
			Radius:   radius,
			LimitAGL: az.LimitAGL,
			Priority: az.Priority,
		}); err != nil {
			return err
		}
	}

	for _, st := range doc.Structures {
		loc, err := st.Location.toPosition()
		if err != nil {
			return fmt.Errorf("structure %q: %w", st.ID, err)
		}
		loc.Down = 0 // base at ground level
		if err := reg.AddStructureWaiver(&StructureWaiver{
			ID:                  st.ID,
			Name:                st.Name,
			Location:            loc,
			HeightAGL:           st.HeightAGL,
			WaiverRadius:        st.WaiverRadius,
			WaiverAltitudeAbove: st.WaiverAltitudeAbove,
		}); err != nil {
			return err
		}
	}

	for _, sz := range doc.SpeedZones {
		shape, err := cylinderFromJSON(sz.ZoneType, sz.Center, sz.Radius, sz.HeightMin, sz.HeightMax)
		if err != nil {
			return fmt.Errorf("speed zone %q: %w", sz.ZoneID, err)
		}
		enabled := true
		if sz.Enabled != nil {
			enabled = *sz.Enabled
		}
		if err := reg.AddSpeedZone(&SpeedZone{
			ID:       sz.ZoneID,
			Shape:    shape,
			LimitMS:  sz.SpeedLimitKmh / 3.6,
			Priority: sz.Priority,
			Enabled:  enabled,
		}); err != nil {
			return err
		}
	}

	for _, tw := range doc.TimeWindowZones {
		shape, err := cylinderFromJSON(tw.ZoneType, tw.Center, tw.Radius, tw.HeightMin, tw.HeightMax)
		if err != nil {
			return fmt.Errorf("time-window zone %q: %w", tw.ZoneID, err)
		}
		enabled := true
		if tw.Enabled != nil {
			enabled = *tw.Enabled
		}
		if err := reg.AddTimeWindowZone(&TimeWindowZone{
			ID:              tw.ZoneID,
			Shape:           shape,
			WindowStart:     tw.WindowStart,
			WindowEnd:       tw.WindowEnd,
			RestrictionType: tw.RestrictionType,
			Priority:        tw.Priority,
			Enabled:         enabled,
		}); err != nil {
			return err
		}
	}

	for _, dz := range doc.DropZones {
		center, err := dz.Center.toPosition()
		if err != nil {
			return fmt.Errorf("drop zone %q: %w", dz.ZoneID, err)
		}
		if err := reg.AddDropZone(&DropZone{
			ID:                      dz.ZoneID,
			Name:                    dz.Name,
			ZoneType:                dz.ZoneType,
			Center:                  center,
			Radius:                  dz.Radius,
			DropProhibited:          dz.DropProhibited,
			DropAllowedWithApproval: dz.DropAllowedWithApproval,
			DropAllowed:             dz.DropAllowed,
		}); err != nil {
			return err
		}
	}

	for _, cz := range doc.ControlledZones {
		center, err := cz.Center.toPosition()
		if err != nil {
			return fmt.Errorf("controlled zone %q: %w", cz.ID, err)
		}
		if err := reg.AddControlledZone(&ControlledZone{
			ID:     cz.ID,
			Name:   cz.Name,
			Center: center,
			Radius: cz.Radius,
		}); err != nil {
			return err
		}
	}

	if doc.VLOS != nil {
		enabled := true
		if doc.VLOS.Enabled != nil {
			enabled = *doc.VLOS.Enabled
		}
		op, err := doc.VLOS.OperatorPosition.toPosition()
		if err != nil {
			return fmt.Errorf("vlos config: %w", err)
		}
		method := VLOSCheckMethod(doc.VLOS.CheckMethod)
		if method == "" {
			method = VLOSHorizontal
		}
		reg.SetVLOSConfig(&VLOSConfig{
			Enabled:          enabled,
			OperatorPosition: op,
			MaxRange:         doc.VLOS.MaxRangeM,
			CheckMethod:      method,
		})
	}

	for _, bw := range doc.Waivers {
		w := &BVLOSWaiver{
			ID:           bw.ID,
			Type:         BVLOSWaiverType(bw.Type),
			PermitNumber: bw.Conditions.PermitNumber,
		}
		// Defaults mirror the scenario library's per-type conventions.
		switch w.Type {
		case WaiverVisualObserver:
			w.MaxEffectiveRange = 1100
			w.ObserverVLOSRange = 500
		case WaiverTechnicalMeans:
			w.MaxEffectiveRange = 2000
		case WaiverSpecialPermit:
			w.MaxEffectiveRange = 5000
		default:
			return fmt.Errorf("bvlos waiver %q: unknown type %q", bw.ID, bw.Type)
		}
		if bw.Conditions.MaxEffectiveRangeM != nil {
			w.MaxEffectiveRange = *bw.Conditions.MaxEffectiveRangeM
		}
		if bw.Conditions.ObserverVLOSRangeM != nil {
			w.ObserverVLOSRange = *bw.Conditions.ObserverVLOSRangeM
		}
		if bw.Conditions.ObserverPosition != nil {
			pos, err := bw.Conditions.ObserverPosition.toPosition()
			if err != nil {
				return fmt.Errorf("bvlos waiver %q: %w", bw.ID, err)
			}
			w.ObserverPosition = pos
		}
		if err := reg.AddBVLOSWaiver(w); err != nil {
			return err
		}
	}

	return nil
}

func cylinderFromJSON(zoneType string, center *positionJSON, radius float64, heightMin, heightMax *float64) (CylinderShape, error) {
	if zoneType == "global" {
		return CylinderShape{Global: true}, nil
	}
	if zoneType != "cylinder" && zoneType != "" {
		return CylinderShape{}, fmt.Errorf("unknown zone shape %q", zoneType)
	}
	c, err := center.toPosition()
	if err != nil {
		return CylinderShape{}, err
	}
	shape := CylinderShape{
		Center:        c,
		Radius:        radius,
		HeightMinDown: -1000,
		HeightMaxDown: 1000,
	}
	if heightMin != nil {
		shape.HeightMinDown = *heightMin
	}
	if heightMax != nil {
		shape.HeightMaxDown = *heightMax
	}
	return shape, nil
}

func missionFromTestCase(tc testCaseJSON) (Mission, error) {
	start, err := tc.Start.toPosition()
	if err != nil {
		return Mission{}, err
	}
	target, err := tc.Target.toPosition()
	if err != nil {
		return Mission{}, err
	}

	m := Mission{
		ID:               tc.ID,
		OperatorID:       tc.OperatorID,
		Start:            start,
		Target:           target,
		SpeedMS:          tc.SpeedMS,
		PayloadKg:        tc.PayloadKg,
		DroneType:        tc.DroneType,
		IncludeDrop:      tc.IncludeDrop,
		HasDropApproval:  tc.HasDropApproval,
		EnabledWaiverIDs: tc.EnabledWaivers,
		Emergency:        tc.FlightType == "emergency",
		Pilot: PilotQualifications{
			NightTraining:      tc.NightTraining,
			AntiCollisionLight: tc.AntiCollisionLite,
		},
		SwarmWaiverApproved: tc.SwarmApproved,
	}

	if tc.SimulatedTime != "" {
		t, err := parseRestrictionTime(tc.SimulatedTime)
		if err != nil {
			return Mission{}, err
		}
		m.Time = t
	}
	if tc.ApplicationTime != "" {
		t, err := parseRestrictionTime(tc.ApplicationTime)
		if err != nil {
			return Mission{}, err
		}
		m.ApplicationTime = t
	}
	if tc.PlannedFlightTime != "" {
		t, err := parseRestrictionTime(tc.PlannedFlightTime)
		if err != nil {
			return Mission{}, err
		}
		m.PlannedFlightTime = t
	}
	return m, nil
}

// StripJSONComments removes // line comments and /* */ block comments
// from JSONC input while leaving string contents untouched. The result
// is plain JSON suitable for encoding/json.
func StripJSONComments(src []byte) []byte {
	out := make([]byte, 0, len(src))

	const (
		stateCode = iota
		stateString
		stateLineComment
		stateBlockComment
	)
	state := stateCode

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch state {
		case stateCode:
			switch {
			case c == '"':
				state = stateString
				out = append(out, c)
			case c == '/' && i+1 < len(src) && src[i+1] == '/':
				state = stateLineComment
				i++
			case c == '/' && i+1 < len(src) && src[i+1] == '*':
				state = stateBlockComment
				i++
			default:
				out = append(out, c)
			}
		case stateString:
			out = append(out, c)
			if c == '\\' && i+1 < len(src) {
				i++
				out = append(out, src[i])
			} else if c == '"' {
				state = stateCode
			}
		case stateLineComment:
			if c == '\n' {
				state = stateCode
				out = append(out, c) // keep line numbers stable for error messages
			}
		case stateBlockComment:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				state = stateCode
				i++
			} else if c == '\n' {
				out = append(out, c)
			}
		}
	}
	return out
}

// LoadTrajectory reads a recorded trajectory document:
//
//	{"drone_id": "...", "trajectory": [{"timestamp": ..., "position": {...}}, ...]}
func LoadTrajectory(r io.Reader) (Trajectory, error) {
	var traj Trajectory
	dec := json.NewDecoder(r)
	if err := dec.Decode(&traj); err != nil {
		return Trajectory{}, fmt.Errorf("LoadTrajectory: decode failed: %w", err)
	}
	if len(traj.Points) == 0 {
		return Trajectory{}, fmt.Errorf("LoadTrajectory: %w", ErrEmptyTrajectory)
	}
	return traj, nil
}
