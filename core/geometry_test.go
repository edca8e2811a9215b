package core

import (
	"math"
	"testing"
)

func TestDistance3DSymmetryAndIdentity(t *testing.T) {
	a := Position{North: 120, East: -45, Down: -80}
	b := Position{North: -300, East: 910, Down: -12}

	if d, e := Distance3D(a, b), Distance3D(b, a); d != e {
		t.Errorf("distance not symmetric: %v vs %v", d, e)
	}
	if d := Distance3D(a, a); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestAltitudeIsNegatedDown(t *testing.T) {
	p := Position{North: 0, East: 0, Down: -50}
	if alt := p.Altitude(); alt != 50 {
		t.Errorf("altitude = %v, want 50", alt)
	}
}

func TestPointSegmentDistanceEndpointSwap(t *testing.T) {
	q := Position{North: 250, East: 400, Down: -60}
	a := Position{North: 0, East: 0, Down: -50}
	b := Position{North: 700, East: 100, Down: -50}

	d1 := PointSegmentDistance3D(q, a, b)
	d2 := PointSegmentDistance3D(q, b, a)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("segment distance changed under endpoint swap: %v vs %v", d1, d2)
	}
}

func TestPointSegmentDistanceDegenerateSegment(t *testing.T) {
	q := Position{North: 30, East: 40, Down: 0}
	a := Position{North: 0, East: 0, Down: 0}

	if d := PointSegmentDistance3D(q, a, a); math.Abs(d-50) > 1e-9 {
		t.Errorf("degenerate segment distance = %v, want 50", d)
	}
}

func TestPointSegmentDistanceClampsToEndpoints(t *testing.T) {
	// q projects beyond b, so the closest point is b itself.
	a := Position{North: 0, East: 0, Down: 0}
	b := Position{North: 100, East: 0, Down: 0}
	q := Position{North: 200, East: 50, Down: 0}

	want := Distance3D(q, b)
	if d := PointSegmentDistance3D(q, a, b); math.Abs(d-want) > 1e-9 {
		t.Errorf("clamped distance = %v, want %v", d, want)
	}
}

func TestPointSegmentDistanceInteriorCloserThanEndpoints(t *testing.T) {
	// The zone-center-on-path case: a sampling approach with a coarse
	// step can miss this, the closed form cannot.
	center := Position{North: 0, East: 0, Down: -50}
	a := Position{North: 700, East: 0, Down: -50}
	b := Position{North: -700, East: 0, Down: -50}

	if d := PointSegmentDistance3D(center, a, b); d != 0 {
		t.Errorf("center lies on the segment, distance = %v, want 0", d)
	}
}

func TestDistance2DIgnoresVertical(t *testing.T) {
	a := Position{North: 0, East: 0, Down: -500}
	b := Position{North: 3, East: 4, Down: 200}

	if d := Distance2D(a, b); math.Abs(d-5) > 1e-9 {
		t.Errorf("horizontal distance = %v, want 5", d)
	}
}

func TestIsFinite(t *testing.T) {
	if !(Position{North: 1, East: 2, Down: 3}).IsFinite() {
		t.Errorf("finite position reported non-finite")
	}
	if (Position{North: math.NaN()}).IsFinite() {
		t.Errorf("NaN position reported finite")
	}
	if (Position{Down: math.Inf(-1)}).IsFinite() {
		t.Errorf("infinite position reported finite")
	}
}
