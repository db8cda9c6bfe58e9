package grid

import "testing"

func TestFieldIndexRowMajor(t *testing.T) {
	f := New[float64](4, 3)
	f.Set(2, 1, 9.5)
	if got := f.At(2, 1); got != 9.5 {
		t.Fatalf("At(2,1) = %v, want 9.5", got)
	}
	if idx := f.Index(2, 1); idx != 1*4+2 {
		t.Fatalf("Index(2,1) = %d, want %d", idx, 1*4+2)
	}
}

func TestFieldInBounds(t *testing.T) {
	f := New[int](5, 5)
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{4, 4, true},
		{5, 0, false},
		{0, 5, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		if got := f.InBounds(c.x, c.y); got != c.want {
			t.Errorf("InBounds(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestFieldCloneIndependent(t *testing.T) {
	f := Fill(3, 3, 1)
	g := f.Clone()
	g.Set(0, 0, 99)
	if f.At(0, 0) == 99 {
		t.Fatal("Clone shares backing storage with original")
	}
}

func TestMoore8FixedOrder(t *testing.T) {
	var got []Direction
	Moore8(3, 3, 1, 1, func(dir Direction, nx, ny int) {
		got = append(got, dir)
	})
	want := []Direction{DirE, DirNE, DirN, DirNW, DirW, DirSW, DirS, DirSE}
	if len(got) != len(want) {
		t.Fatalf("got %d neighbors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbor %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMoore8ClipsAtEdge(t *testing.T) {
	count := 0
	Moore8(3, 3, 0, 0, func(dir Direction, nx, ny int) { count++ })
	if count != 3 {
		t.Fatalf("corner cell has %d in-bounds neighbors, want 3", count)
	}
}

func TestLatitudeProxyEndpoints(t *testing.T) {
	h := 11
	if got := LatitudeProxy(0, h); got != -1 {
		t.Errorf("LatitudeProxy(0) = %v, want -1", got)
	}
	if got := LatitudeProxy(h-1, h); got != 1 {
		t.Errorf("LatitudeProxy(h-1) = %v, want 1", got)
	}
	if got := LatitudeProxy((h-1)/2, h); got != 0 {
		t.Errorf("LatitudeProxy(mid) = %v, want 0", got)
	}
}
