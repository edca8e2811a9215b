package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Daily windows are plain HH:MM strings compared as minutes since
// midnight; absolute restrictions (TFRs) use full date-times. The two
// never mix: a TFR that should recur daily is modelled as a
// TimeWindowZone instead.

// parseClockMinutes converts "HH:MM" to minutes since midnight.
func parseClockMinutes(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock time %q: %v", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock time %q: %v", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

// IsWithinWindow reports whether the clock time now falls inside the
// daily window [start, end). A window whose start is at or after its
// end wraps past midnight: containment is then now >= start OR
// now < end. All three arguments are HH:MM strings.
func IsWithinWindow(now, start, end string) (bool, error) {
	nowMin, err := parseClockMinutes(now)
	if err != nil {
		return false, err
	}
	startMin, err := parseClockMinutes(start)
	if err != nil {
		return false, err
	}
	endMin, err := parseClockMinutes(end)
	if err != nil {
		return false, err
	}

	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin, nil
	}
	return nowMin >= startMin || nowMin < endMin, nil
}

// restrictionLayouts are the timestamp formats we accept for TFR
// activation intervals. The recorded scenarios use RFC 3339 with and
// without a zone suffix.
var restrictionLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseRestrictionTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range restrictionLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable restriction timestamp %q", s)
}

// RestrictionActive resolves whether a TimeRestriction applies at the
// given instant. Activation is start <= now < end on full date-times.
//
// Unparsable timestamps fail safe: we assume the restriction applies
// rather than silently dropping a TFR, so the zone stays active.
func RestrictionActive(r *TimeRestriction, now time.Time) bool {
	if r == nil {
		return true // no restriction = permanently active
	}

	start, err := parseRestrictionTime(r.ActiveStart)
	if err != nil {
		return true
	}
	end, err := parseRestrictionTime(r.ActiveEnd)
	if err != nil {
		return true
	}

	return !now.Before(start) && now.Before(end)
}

// ActiveGeofences filters the snapshot's geofences down to those whose
// time restriction (if any) is active at the given instant.
func ActiveGeofences(zones []GeofenceZone, now time.Time) []GeofenceZone {
	active := make([]GeofenceZone, 0, len(zones))
	for _, z := range zones {
		if RestrictionActive(z.Restriction, now) {
			active = append(active, z)
		}
	}
	return active
}

// NightPeriod is the daily interval during which night-flight
// requirements (anti-collision lighting, pilot night training) apply.
type NightPeriod struct {
	Start string `json:"night_start" yaml:"night_start"` // HH:MM
	End   string `json:"night_end" yaml:"night_end"`     // HH:MM

	LightingRequired bool `json:"lighting_required" yaml:"lighting_required"`
	TrainingRequired bool `json:"training_required" yaml:"training_required"`
}

// DefaultNightPeriod is civil-twilight based: sunset+30min to
// sunrise-30min.
func DefaultNightPeriod() NightPeriod {
	return NightPeriod{
		Start:            "18:30",
		End:              "05:30",
		LightingRequired: true,
		TrainingRequired: true,
	}
}

// IsNight reports whether t falls inside the night period.
func (n NightPeriod) IsNight(t time.Time) (bool, error) {
	return IsWithinWindow(t.Format("15:04"), n.Start, n.End)
}
