package anim

import "time"

// Scalar animates one value toward a target along an easing curve.
// Methods take the current instant explicitly, so callers control time
// and tests stay deterministic. Not safe for concurrent use.
type Scalar struct {
	initialized bool
	from, to    float64
	start       time.Time
	duration    time.Duration
	easing      Easing
}

// NewScalar returns a scalar animator. A non-positive duration makes
// every change instant.
func NewScalar(d time.Duration, e Easing) Scalar {
	if e == nil {
		e = EaseOut
	}
	return Scalar{duration: d, easing: e}
}

// Set retargets the value. The first call snaps; later calls restart
// the curve from the value currently shown, so a retarget mid-flight
// never jumps.
func (s *Scalar) Set(target float64, now time.Time) {
	if !s.initialized {
		s.initialized = true
		s.from, s.to = target, target
		s.start = now
		return
	}
	if target == s.to {
		return
	}
	s.from = s.At(now)
	s.to = target
	s.start = now
}

// Snap forces the value with no animation.
func (s *Scalar) Snap(v float64, now time.Time) {
	s.initialized = true
	s.from, s.to = v, v
	s.start = now
}

// Bump displaces the shown value by delta, leaving the target alone,
// and restarts the curve so the displacement decays smoothly.
func (s *Scalar) Bump(delta float64, now time.Time) {
	if !s.initialized {
		s.Snap(0, now)
	}
	s.from = s.At(now) + delta
	s.start = now
}

// At returns the shown value at the given instant.
func (s *Scalar) At(now time.Time) float64 {
	if !s.initialized {
		return 0
	}
	if s.duration <= 0 || s.from == s.to {
		return s.to
	}
	t := now.Sub(s.start).Seconds() / s.duration.Seconds()
	if t >= 1 {
		return s.to
	}
	if t <= 0 {
		return s.from
	}
	return s.from + (s.to-s.from)*s.easing(t)
}

// Target returns the destination value.
func (s *Scalar) Target() float64 { return s.to }

// Settled reports whether the shown value has reached the target.
func (s *Scalar) Settled(now time.Time) bool {
	if !s.initialized || s.duration <= 0 || s.from == s.to {
		return true
	}
	return now.Sub(s.start) >= s.duration
}

// Point animates a position in screen cells.
type Point struct {
	row, col Scalar
}

// NewPoint returns a position animator.
func NewPoint(d time.Duration, e Easing) Point {
	return Point{row: NewScalar(d, e), col: NewScalar(d, e)}
}

// Set retargets both coordinates together.
func (p *Point) Set(row, col float64, now time.Time) {
	p.row.Set(row, now)
	p.col.Set(col, now)
}

// Snap forces the position with no animation.
func (p *Point) Snap(row, col float64, now time.Time) {
	p.row.Snap(row, now)
	p.col.Snap(col, now)
}

// At returns the shown position.
func (p *Point) At(now time.Time) (row, col float64) {
	return p.row.At(now), p.col.At(now)
}

// Target returns the destination position.
func (p *Point) Target() (row, col float64) {
	return p.row.Target(), p.col.Target()
}

// Settled reports whether both coordinates reached their targets.
func (p *Point) Settled(now time.Time) bool {
	return p.row.Settled(now) && p.col.Settled(now)
}
