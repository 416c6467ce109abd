package tensor

import "testing"

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()

	tn, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	assertEqualShape(t, Shape{2, 3}, tn.Shape(), "FromSlice shape")
	if got := tn.At(1, 2); got != 6 {
		t.Errorf("At(1,2) = %v, want 6", got)
	}
}

func TestFromSliceWrongSize(t *testing.T) {
	backend := NewMockBackend()
	if _, err := FromSlice([]float32{1, 2}, Shape{2, 3}, backend); err == nil {
		t.Error("expected error for mismatched slice length")
	}
}

func TestTensorExpandAndAt(t *testing.T) {
	backend := NewMockBackend()

	row, err := FromSlice([]float32{10, 20, 30}, Shape{1, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	grid := row.Expand(Shape{4, 3})
	assertEqualShape(t, Shape{4, 3}, grid.Shape(), "expanded shape")

	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			want := float32((j + 1) * 10)
			if got := grid.At(i, j); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestTensorContiguous(t *testing.T) {
	backend := NewMockBackend()

	row, err := FromSlice([]float32{1, 2, 3}, Shape{1, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	grid := row.Expand(Shape{4, 3}).Contiguous()
	data := grid.Data()
	if len(data) != 12 {
		t.Fatalf("expected 12 elements, got %d", len(data))
	}
	for i, v := range data {
		want := float32(i%3 + 1)
		if v != want {
			t.Errorf("data[%d] = %v, want %v", i, v, want)
		}
	}

	// Already contiguous: same tensor back.
	if grid.Contiguous() != grid {
		t.Error("Contiguous on a packed tensor must be a no-op")
	}
}

func TestMockAddBroadcast(t *testing.T) {
	backend := NewMockBackend()

	a, err := FromSlice([]float32{1, 2, 3}, Shape{1, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	b, err := FromSlice([]float32{10, 20}, Shape{2, 1}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	c := a.Add(b)
	assertEqualShape(t, Shape{2, 3}, c.Shape(), "broadcast add shape")

	want := []float32{11, 12, 13, 21, 22, 23}
	for i, v := range c.Data() {
		if v != want[i] {
			t.Errorf("data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestMockAddZeroStrideView(t *testing.T) {
	backend := NewMockBackend()

	row, err := FromSlice([]float32{1, 2, 3}, Shape{1, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	grid := row.Expand(Shape{2, 3})

	ones := Ones[float32](Shape{2, 3}, backend)
	sum := grid.Add(ones)

	want := []float32{2, 3, 4, 2, 3, 4}
	for i, v := range sum.Data() {
		if v != want[i] {
			t.Errorf("data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestMockMatMul(t *testing.T) {
	backend := NewMockBackend()

	a, err := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	b, err := FromSlice([]float32{5, 6, 7, 8}, Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	c := a.MatMul(b)
	want := []float32{19, 22, 43, 50}
	for i, v := range c.Data() {
		if v != want[i] {
			t.Errorf("data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestItemScalar(t *testing.T) {
	backend := NewMockBackend()

	s, err := FromSlice([]float64{3.5}, Shape{}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if got := s.Item(); got != 3.5 {
		t.Errorf("Item() = %v, want 3.5", got)
	}
}
