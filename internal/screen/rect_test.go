package screen

import "testing"

func TestRectUnionIntersect(t *testing.T) {
	a := Rect{Row: 0, Col: 0, Rows: 2, Cols: 4}
	b := Rect{Row: 1, Col: 2, Rows: 3, Cols: 4}

	if got, want := a.Union(b), (Rect{Row: 0, Col: 0, Rows: 4, Cols: 6}); got != want {
		t.Errorf("union = %+v, want %+v", got, want)
	}
	if got, want := a.Intersect(b), (Rect{Row: 1, Col: 2, Rows: 1, Cols: 2}); got != want {
		t.Errorf("intersect = %+v, want %+v", got, want)
	}

	c := Rect{Row: 10, Col: 10, Rows: 1, Cols: 1}
	if !a.Intersect(c).Empty() {
		t.Error("disjoint rects should intersect empty")
	}
	if a.Overlaps(c) {
		t.Error("disjoint rects should not overlap")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{Row: 2, Col: 3, Rows: 2, Cols: 2}
	if !r.Contains(2, 3) || !r.Contains(3, 4) {
		t.Error("corner cells should be inside")
	}
	if r.Contains(4, 3) || r.Contains(2, 5) {
		t.Error("cells past the extent should be outside")
	}
}

func TestDamageMergesTouching(t *testing.T) {
	var d damage
	d.mark(Rect{Row: 0, Col: 0, Rows: 1, Cols: 5}, 80, 24)
	d.mark(Rect{Row: 0, Col: 5, Rows: 1, Cols: 5}, 80, 24)

	regions, full := d.take()
	if full {
		t.Fatal("unexpected full repaint")
	}
	if len(regions) != 1 {
		t.Fatalf("regions = %+v, want one merged region", regions)
	}
	if want := (Rect{Row: 0, Col: 0, Rows: 1, Cols: 10}); regions[0] != want {
		t.Fatalf("region = %+v, want %+v", regions[0], want)
	}
}

func TestDamageKeepsDisjoint(t *testing.T) {
	var d damage
	d.mark(Rect{Row: 0, Col: 0, Rows: 1, Cols: 2}, 80, 24)
	d.mark(Rect{Row: 10, Col: 0, Rows: 1, Cols: 2}, 80, 24)

	regions, full := d.take()
	if full || len(regions) != 2 {
		t.Fatalf("regions = %+v full = %v, want two regions", regions, full)
	}
}

func TestDamageCollapsesPastRatio(t *testing.T) {
	var d damage
	d.mark(Rect{Row: 0, Col: 0, Rows: 6, Cols: 10}, 10, 10)

	regions, full := d.take()
	if !full {
		t.Fatalf("regions = %+v, want full repaint past half the grid", regions)
	}
}

func TestDamageFullSwallowsMarks(t *testing.T) {
	var d damage
	d.markFull()
	d.mark(Rect{Row: 0, Col: 0, Rows: 1, Cols: 1}, 80, 24)

	regions, full := d.take()
	if !full || regions != nil {
		t.Fatalf("take = %+v full = %v", regions, full)
	}
}

func TestDamageTakeResets(t *testing.T) {
	var d damage
	d.mark(Rect{Row: 0, Col: 0, Rows: 1, Cols: 1}, 80, 24)
	d.take()

	regions, full := d.take()
	if full || regions != nil {
		t.Fatal("tracker should be empty after take")
	}

	d.mark(Rect{Row: 2, Col: 2, Rows: 1, Cols: 1}, 80, 24)
	regions, _ = d.take()
	if len(regions) != 1 || regions[0].Row != 2 {
		t.Fatalf("regions = %+v", regions)
	}
}

func TestDamageClipsToGrid(t *testing.T) {
	var d damage
	d.mark(Rect{Row: 20, Col: 70, Rows: 10, Cols: 20}, 80, 24)

	regions, full := d.take()
	if full {
		t.Fatal("unexpected full repaint")
	}
	if want := (Rect{Row: 20, Col: 70, Rows: 4, Cols: 10}); len(regions) != 1 || regions[0] != want {
		t.Fatalf("regions = %+v, want %+v", regions, want)
	}
}
