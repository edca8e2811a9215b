package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrZoneExists   = errors.New("zone already exists")
	ErrZoneBadInput = errors.New("invalid zone")
	ErrZoneNotFound = errors.New("zone not found")
)

// ZoneRegistry is the typed catalog of every constraint zone known to
// the engine. It is concurrency-safe via an internal RWMutex so a
// running monitor can keep evaluating while a scenario reload is in
// flight; evaluators never touch the registry directly — they work on
// an immutable Snapshot taken at the start of each evaluation.
type ZoneRegistry struct {
	mu sync.RWMutex

	geofences    map[string]*GeofenceZone
	altitudes    map[string]*AltitudeZone
	structures   map[string]*StructureWaiver
	speedZones   map[string]*SpeedZone
	timeWindows  map[string]*TimeWindowZone
	dropZones    map[string]*DropZone
	controlled   map[string]*ControlledZone
	bvlosWaivers map[string]*BVLOSWaiver
	vlos         *VLOSConfig
}

// NewZoneRegistry creates an empty registry.
func NewZoneRegistry() *ZoneRegistry {
	return &ZoneRegistry{
		geofences:    make(map[string]*GeofenceZone),
		altitudes:    make(map[string]*AltitudeZone),
		structures:   make(map[string]*StructureWaiver),
		speedZones:   make(map[string]*SpeedZone),
		timeWindows:  make(map[string]*TimeWindowZone),
		dropZones:    make(map[string]*DropZone),
		controlled:   make(map[string]*ControlledZone),
		bvlosWaivers: make(map[string]*BVLOSWaiver),
	}
}

//
// ---------- Geofences ----------
//

func (r *ZoneRegistry) AddGeofence(z *GeofenceZone) error {
	if z == nil || z.ID == "" {
		return fmt.Errorf("%w: nil or empty geofence", ErrZoneBadInput)
	}
	if z.Radius < 0 || z.SafetyMargin < 0 {
		return fmt.Errorf("%w: geofence %q has negative radius or margin", ErrZoneBadInput, z.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.geofences[z.ID]; exists {
		return fmt.Errorf("%w: %q", ErrZoneExists, z.ID)
	}
	r.geofences[z.ID] = z
	return nil
}

// GetGeofence returns a geofence by ID, or nil if not found.
func (r *ZoneRegistry) GetGeofence(id string) *GeofenceZone {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.geofences[id]
}

//
// ---------- Altitude zones and structure waivers ----------
//

func (r *ZoneRegistry) AddAltitudeZone(z *AltitudeZone) error {
	if z == nil || z.ID == "" {
		return fmt.Errorf("%w: nil or empty altitude zone", ErrZoneBadInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.altitudes[z.ID]; exists {
		return fmt.Errorf("%w: %q", ErrZoneExists, z.ID)
	}
	r.altitudes[z.ID] = z
	return nil
}

func (r *ZoneRegistry) AddStructureWaiver(w *StructureWaiver) error {
	if w == nil || w.ID == "" {
		return fmt.Errorf("%w: nil or empty structure waiver", ErrZoneBadInput)
	}
	if w.WaiverRadius < 0 {
		return fmt.Errorf("%w: structure waiver %q has negative radius", ErrZoneBadInput, w.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.structures[w.ID]; exists {
		return fmt.Errorf("%w: %q", ErrZoneExists, w.ID)
	}
	r.structures[w.ID] = w
	return nil
}

//
// ---------- Speed / time-window zones ----------
//

func (r *ZoneRegistry) AddSpeedZone(z *SpeedZone) error {
	if z == nil || z.ID == "" {
		return fmt.Errorf("%w: nil or empty speed zone", ErrZoneBadInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.speedZones[z.ID]; exists {
		return fmt.Errorf("%w: %q", ErrZoneExists, z.ID)
	}
	r.speedZones[z.ID] = z
	return nil
}

func (r *ZoneRegistry) AddTimeWindowZone(z *TimeWindowZone) error {
	if z == nil || z.ID == "" {
		return fmt.Errorf("%w: nil or empty time-window zone", ErrZoneBadInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.timeWindows[z.ID]; exists {
		return fmt.Errorf("%w: %q", ErrZoneExists, z.ID)
	}
	r.timeWindows[z.ID] = z
	return nil
}

//
// ---------- Drop / controlled zones ----------
//

func (r *ZoneRegistry) AddDropZone(z *DropZone) error {
	if z == nil || z.ID == "" {
		return fmt.Errorf("%w: nil or empty drop zone", ErrZoneBadInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dropZones[z.ID]; exists {
		return fmt.Errorf("%w: %q", ErrZoneExists, z.ID)
	}
	r.dropZones[z.ID] = z
	return nil
}

func (r *ZoneRegistry) AddControlledZone(z *ControlledZone) error {
	if z == nil || z.ID == "" {
		return fmt.Errorf("%w: nil or empty controlled zone", ErrZoneBadInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controlled[z.ID]; exists {
		return fmt.Errorf("%w: %q", ErrZoneExists, z.ID)
	}
	r.controlled[z.ID] = z
	return nil
}

//
// ---------- VLOS / BVLOS ----------
//

// SetVLOSConfig installs or replaces the VLOS envelope.
func (r *ZoneRegistry) SetVLOSConfig(cfg *VLOSConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vlos = cfg
}

func (r *ZoneRegistry) AddBVLOSWaiver(w *BVLOSWaiver) error {
	if w == nil || w.ID == "" {
		return fmt.Errorf("%w: nil or empty BVLOS waiver", ErrZoneBadInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bvlosWaivers[w.ID]; exists {
		return fmt.Errorf("%w: %q", ErrZoneExists, w.ID)
	}
	r.bvlosWaivers[w.ID] = w
	return nil
}

// Clear removes everything, leaving an empty registry.
func (r *ZoneRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.geofences = make(map[string]*GeofenceZone)
	r.altitudes = make(map[string]*AltitudeZone)
	r.structures = make(map[string]*StructureWaiver)
	r.speedZones = make(map[string]*SpeedZone)
	r.timeWindows = make(map[string]*TimeWindowZone)
	r.dropZones = make(map[string]*DropZone)
	r.controlled = make(map[string]*ControlledZone)
	r.bvlosWaivers = make(map[string]*BVLOSWaiver)
	r.vlos = nil
}

//
// ---------- Snapshot ----------
//

// ZoneSnapshot is the immutable view the evaluators work against. All
// slices are value copies sorted by (priority, ID) so an evaluation
// sees a stable ordering regardless of map iteration order — this is
// what makes repeated evaluations of the same input byte-identical.
type ZoneSnapshot struct {
	Geofences    []GeofenceZone
	Altitudes    []AltitudeZone
	Structures   []StructureWaiver
	SpeedZones   []SpeedZone
	TimeWindows  []TimeWindowZone
	DropZones    []DropZone
	Controlled   []ControlledZone
	BVLOSWaivers []BVLOSWaiver
	VLOS         *VLOSConfig
}

// Snapshot copies the registry contents into a read-only view.
func (r *ZoneRegistry) Snapshot() ZoneSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := ZoneSnapshot{
		Geofences:    make([]GeofenceZone, 0, len(r.geofences)),
		Altitudes:    make([]AltitudeZone, 0, len(r.altitudes)),
		Structures:   make([]StructureWaiver, 0, len(r.structures)),
		SpeedZones:   make([]SpeedZone, 0, len(r.speedZones)),
		TimeWindows:  make([]TimeWindowZone, 0, len(r.timeWindows)),
		DropZones:    make([]DropZone, 0, len(r.dropZones)),
		Controlled:   make([]ControlledZone, 0, len(r.controlled)),
		BVLOSWaivers: make([]BVLOSWaiver, 0, len(r.bvlosWaivers)),
	}

	for _, z := range r.geofences {
		snap.Geofences = append(snap.Geofences, *z)
	}
	for _, z := range r.altitudes {
		snap.Altitudes = append(snap.Altitudes, *z)
	}
	for _, w := range r.structures {
		snap.Structures = append(snap.Structures, *w)
	}
	for _, z := range r.speedZones {
		snap.SpeedZones = append(snap.SpeedZones, *z)
	}
	for _, z := range r.timeWindows {
		snap.TimeWindows = append(snap.TimeWindows, *z)
	}
	for _, z := range r.dropZones {
		snap.DropZones = append(snap.DropZones, *z)
	}
	for _, z := range r.controlled {
		snap.Controlled = append(snap.Controlled, *z)
	}
	for _, w := range r.bvlosWaivers {
		snap.BVLOSWaivers = append(snap.BVLOSWaivers, *w)
	}
	if r.vlos != nil {
		cfg := *r.vlos
		snap.VLOS = &cfg
	}

	sort.Slice(snap.Geofences, func(i, j int) bool {
		a, b := snap.Geofences[i], snap.Geofences[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ID < b.ID
	})
	sort.Slice(snap.Altitudes, func(i, j int) bool {
		a, b := snap.Altitudes[i], snap.Altitudes[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ID < b.ID
	})
	sort.Slice(snap.Structures, func(i, j int) bool {
		return snap.Structures[i].ID < snap.Structures[j].ID
	})
	sort.Slice(snap.SpeedZones, func(i, j int) bool {
		a, b := snap.SpeedZones[i], snap.SpeedZones[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ID < b.ID
	})
	sort.Slice(snap.TimeWindows, func(i, j int) bool {
		a, b := snap.TimeWindows[i], snap.TimeWindows[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ID < b.ID
	})
	sort.Slice(snap.DropZones, func(i, j int) bool {
		return snap.DropZones[i].ID < snap.DropZones[j].ID
	})
	sort.Slice(snap.Controlled, func(i, j int) bool {
		return snap.Controlled[i].ID < snap.Controlled[j].ID
	})
	sort.Slice(snap.BVLOSWaivers, func(i, j int) bool {
		return snap.BVLOSWaivers[i].ID < snap.BVLOSWaivers[j].ID
	})

	return snap
}

// Counts returns per-category zone counts, mainly for logging after a
// scenario load.
func (r *ZoneRegistry) Counts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]int{
		"geofences":     len(r.geofences),
		"altitude":      len(r.altitudes),
		"structures":    len(r.structures),
		"speed":         len(r.speedZones),
		"time_window":   len(r.timeWindows),
		"drop":          len(r.dropZones),
		"controlled":    len(r.controlled),
		"bvlos_waivers": len(r.bvlosWaivers),
	}
}
