package anim

import (
	"math"
	"testing"
	"time"
)

func TestEasingBounds(t *testing.T) {
	easings := map[string]Easing{
		"linear":        Linear,
		"ease-out":      EaseOut,
		"ease-in-out":   EaseInOut,
		"ease-out-expo": EaseOutExpo,
	}
	for name, e := range easings {
		t.Run(name, func(t *testing.T) {
			if got := e(0); math.Abs(got) > 1e-9 {
				t.Errorf("e(0) = %v, want 0", got)
			}
			if got := e(1); math.Abs(got-1) > 1e-3 {
				t.Errorf("e(1) = %v, want 1", got)
			}
			prev := e(0)
			for i := 1; i <= 100; i++ {
				cur := e(float64(i) / 100)
				if cur < prev-1e-9 {
					t.Fatalf("not monotonic at t=%v: %v < %v", float64(i)/100, cur, prev)
				}
				prev = cur
			}
		})
	}
}

func TestByName(t *testing.T) {
	if got := ByName("linear")(0.5); got != 0.5 {
		t.Errorf("linear(0.5) = %v", got)
	}
	if got := ByName("no-such-curve")(0.5); got != EaseOut(0.5) {
		t.Errorf("unknown name should fall back to ease-out, got %v", got)
	}
}

func TestScalarFirstSetSnaps(t *testing.T) {
	base := time.Unix(0, 0)
	s := NewScalar(100*time.Millisecond, Linear)

	s.Set(7, base)
	if got := s.At(base); got != 7 {
		t.Fatalf("value = %v immediately after first set, want 7", got)
	}
	if !s.Settled(base) {
		t.Fatal("first set should not start an animation")
	}
}

func TestScalarMonotonicProgress(t *testing.T) {
	base := time.Unix(0, 0)
	s := NewScalar(100*time.Millisecond, EaseOut)
	s.Set(0, base)
	s.Set(10, base)

	prev := s.At(base)
	for ms := 5; ms <= 120; ms += 5 {
		cur := s.At(base.Add(time.Duration(ms) * time.Millisecond))
		if cur < prev-1e-9 {
			t.Fatalf("value moved backwards at %dms: %v < %v", ms, cur, prev)
		}
		prev = cur
	}
	if got := s.At(base.Add(150 * time.Millisecond)); got != 10 {
		t.Fatalf("value = %v after the duration, want 10", got)
	}
}

func TestScalarRetargetContinuity(t *testing.T) {
	base := time.Unix(0, 0)
	s := NewScalar(100*time.Millisecond, Linear)
	s.Set(0, base)
	s.Set(10, base)

	mid := base.Add(50 * time.Millisecond)
	shown := s.At(mid)
	if math.Abs(shown-5) > 1e-9 {
		t.Fatalf("midpoint = %v, want 5", shown)
	}

	s.Set(3, mid)
	if got := s.At(mid); math.Abs(got-shown) > 1e-9 {
		t.Fatalf("value jumped on retarget: %v then %v", shown, got)
	}
	if got := s.At(mid.Add(200 * time.Millisecond)); got != 3 {
		t.Fatalf("value = %v after retarget settles, want 3", got)
	}
}

func TestScalarSetSameTargetKeepsCurve(t *testing.T) {
	base := time.Unix(0, 0)
	s := NewScalar(100*time.Millisecond, Linear)
	s.Set(0, base)
	s.Set(10, base)

	mid := base.Add(50 * time.Millisecond)
	s.Set(10, mid)
	if got := s.At(mid); math.Abs(got-5) > 1e-9 {
		t.Fatalf("re-setting the same target restarted the curve: %v", got)
	}
	if got := s.At(base.Add(100 * time.Millisecond)); got != 10 {
		t.Fatalf("value = %v at the original end, want 10", got)
	}
}

func TestScalarBumpDecaysToTarget(t *testing.T) {
	base := time.Unix(0, 0)
	s := NewScalar(100*time.Millisecond, Linear)
	s.Snap(0, base)

	s.Bump(4, base)
	if got := s.At(base); got != 4 {
		t.Fatalf("value = %v right after bump, want 4", got)
	}
	if got := s.At(base.Add(50 * time.Millisecond)); math.Abs(got-2) > 1e-9 {
		t.Fatalf("value = %v at half decay, want 2", got)
	}
	if got := s.At(base.Add(120 * time.Millisecond)); got != 0 {
		t.Fatalf("value = %v after decay, want 0", got)
	}
}

func TestScalarBumpAccumulates(t *testing.T) {
	base := time.Unix(0, 0)
	s := NewScalar(100*time.Millisecond, Linear)
	s.Snap(0, base)
	s.Bump(4, base)

	mid := base.Add(50 * time.Millisecond)
	s.Bump(2, mid)
	if got := s.At(mid); math.Abs(got-4) > 1e-9 {
		t.Fatalf("value = %v after second bump, want 4", got)
	}
	if got := s.At(mid.Add(120 * time.Millisecond)); got != 0 {
		t.Fatalf("value = %v after both decays, want 0", got)
	}
}

func TestScalarZeroDurationSnaps(t *testing.T) {
	base := time.Unix(0, 0)
	s := NewScalar(0, Linear)
	s.Set(1, base)
	s.Set(9, base)
	if got := s.At(base); got != 9 {
		t.Fatalf("value = %v, want 9", got)
	}
	if !s.Settled(base) {
		t.Fatal("zero duration should always be settled")
	}
}

func TestPointFollowsBothAxes(t *testing.T) {
	base := time.Unix(0, 0)
	p := NewPoint(100*time.Millisecond, Linear)
	p.Set(0, 0, base)
	p.Set(10, 20, base)

	row, col := p.At(base.Add(50 * time.Millisecond))
	if math.Abs(row-5) > 1e-9 || math.Abs(col-10) > 1e-9 {
		t.Fatalf("point = (%v, %v), want (5, 10)", row, col)
	}
	if p.Settled(base.Add(50 * time.Millisecond)) {
		t.Fatal("point should still be moving")
	}
	if !p.Settled(base.Add(100 * time.Millisecond)) {
		t.Fatal("point should be settled at the duration")
	}
}
