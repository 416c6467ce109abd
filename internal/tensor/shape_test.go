package tensor

import "testing"

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []int
	}{
		{Shape{}, []int{}},
		{Shape{5}, []int{1}},
		{Shape{2, 3}, []int{3, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
		{Shape{4, 1}, []int{1, 1}},
		{Shape{5, 0}, []int{1, 1}}, // zero-size dims never produce a zero stride
	}

	for _, tt := range tests {
		assertEqualInts(t, tt.want, tt.shape.ComputeStrides(), "ComputeStrides")
	}
}

func TestNumElements(t *testing.T) {
	if got := (Shape{}).NumElements(); got != 1 {
		t.Errorf("scalar NumElements = %d, want 1", got)
	}
	if got := (Shape{2, 3}).NumElements(); got != 6 {
		t.Errorf("NumElements = %d, want 6", got)
	}
	if got := (Shape{2, 0, 3}).NumElements(); got != 0 {
		t.Errorf("NumElements with zero dim = %d, want 0", got)
	}
}

func TestBroadcastShapes(t *testing.T) {
	out, needs, err := BroadcastShapes(Shape{3, 1}, Shape{3, 5})
	if err != nil {
		t.Fatalf("BroadcastShapes: %v", err)
	}
	assertEqualShape(t, Shape{3, 5}, out, "broadcast (3,1)+(3,5)")
	if !needs {
		t.Error("expected needsBroadcast = true")
	}

	out, needs, err = BroadcastShapes(Shape{3, 5}, Shape{3, 5})
	if err != nil {
		t.Fatalf("BroadcastShapes: %v", err)
	}
	assertEqualShape(t, Shape{3, 5}, out, "broadcast same shapes")
	if needs {
		t.Error("expected needsBroadcast = false for equal shapes")
	}

	if _, _, err := BroadcastShapes(Shape{3, 4}, Shape{3, 5}); err == nil {
		t.Error("expected error for incompatible shapes")
	}
}
