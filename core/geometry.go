package core

import "math"

// Position is a point in the local NED (north-east-down) frame, in metres.
// Down is positive towards the ground, so a drone flying at 50 m AGL has
// Down = -50.
type Position struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	Down  float64 `json:"down"`
}

// Altitude returns the height above the reference plane in metres. It is
// simply the negated down component.
func (p Position) Altitude() float64 {
	return -p.Down
}

// IsFinite reports whether all three components are finite numbers.
// NaN or ±Inf coordinates must never reach the evaluators.
func (p Position) IsFinite() bool {
	return !math.IsNaN(p.North) && !math.IsInf(p.North, 0) &&
		!math.IsNaN(p.East) && !math.IsInf(p.East, 0) &&
		!math.IsNaN(p.Down) && !math.IsInf(p.Down, 0)
}

// Sub returns p - other.
func (p Position) Sub(other Position) Position {
	return Position{
		North: p.North - other.North,
		East:  p.East - other.East,
		Down:  p.Down - other.Down,
	}
}

// Distance3D returns the straight-line distance between two points.
func Distance3D(a, b Position) float64 {
	dn := a.North - b.North
	de := a.East - b.East
	dd := a.Down - b.Down
	return math.Sqrt(dn*dn + de*de + dd*dd)
}

// Distance2D returns the horizontal (north/east plane) distance between
// two points, ignoring the vertical component.
func Distance2D(a, b Position) float64 {
	dn := a.North - b.North
	de := a.East - b.East
	return math.Sqrt(dn*dn + de*de)
}

// segmentParam clamps the projection parameter of a point onto a segment
// to t ∈ [0,1]. A zero-length segment degenerates to its start point.
func segmentParam(dot, lenSq float64) float64 {
	if lenSq == 0 {
		return 0
	}
	t := dot / lenSq
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// SegmentClosestPoint3D returns the point on segment a→b closest to q,
// along with its parameter t. The closest point is found in closed form
// by projecting q onto the segment and clamping t to [0,1]; no sampling
// is involved, so a segment that grazes a zone between waypoints is
// never missed.
func SegmentClosestPoint3D(q, a, b Position) (Position, float64) {
	v := b.Sub(a)
	w := q.Sub(a)
	lenSq := v.North*v.North + v.East*v.East + v.Down*v.Down
	dot := w.North*v.North + w.East*v.East + w.Down*v.Down
	t := segmentParam(dot, lenSq)

	return Position{
		North: a.North + v.North*t,
		East:  a.East + v.East*t,
		Down:  a.Down + v.Down*t,
	}, t
}

// PointSegmentDistance3D returns the minimum distance from point q to the
// straight segment a→b, in full 3D.
func PointSegmentDistance3D(q, a, b Position) float64 {
	closest, _ := SegmentClosestPoint3D(q, a, b)
	return Distance3D(q, closest)
}

// PointSegmentDistance2D is the horizontal-plane analogue of
// PointSegmentDistance3D: the vertical component of all three points is
// ignored. Cylindrical zones (speed, obstacle) use this together with a
// separate vertical-range check.
func PointSegmentDistance2D(q, a, b Position) float64 {
	vn := b.North - a.North
	ve := b.East - a.East
	wn := q.North - a.North
	we := q.East - a.East
	lenSq := vn*vn + ve*ve
	dot := wn*vn + we*ve
	t := segmentParam(dot, lenSq)

	closest := Position{North: a.North + vn*t, East: a.East + ve*t}
	return Distance2D(q, closest)
}
