package geometry

import "testing"

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b AABB
		want bool
	}{
		{
			name: "clear overlap",
			a:    AABB{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
			b:    AABB{MinX: 5, MaxX: 15, MinY: 5, MaxY: 15},
			want: true,
		},
		{
			name: "touching edges do not overlap",
			a:    AABB{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
			b:    AABB{MinX: 10, MaxX: 20, MinY: 0, MaxY: 10},
			want: false,
		},
		{
			name: "fully separate",
			a:    AABB{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
			b:    AABB{MinX: 100, MaxX: 110, MinY: 100, MaxY: 110},
			want: false,
		},
		{
			name: "one inside the other",
			a:    AABB{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100},
			b:    AABB{MinX: 10, MaxX: 20, MinY: 10, MaxY: 20},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(%+v,%+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s", tt.name)
			}
		})
	}
}

func TestFromCenter(t *testing.T) {
	box := FromCenter(100, 200, 40, 60)
	if box.MinX != 80 || box.MaxX != 120 {
		t.Errorf("unexpected X bounds: %+v", box)
	}
	if box.MinY != 170 || box.MaxY != 230 {
		t.Errorf("unexpected Y bounds: %+v", box)
	}
}

func TestTranslate(t *testing.T) {
	box := AABB{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10}
	moved := Translate(box, 5, -5)
	want := AABB{MinX: 5, MaxX: 15, MinY: -5, MaxY: 5}
	if moved != want {
		t.Errorf("Translate = %+v, want %+v", moved, want)
	}
}
