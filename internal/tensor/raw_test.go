package tensor

import "testing"

func assertEqualShape(t *testing.T, want, got Shape, msg string) {
	t.Helper()
	if !want.Equal(got) {
		t.Errorf("%s: expected shape %v, got %v", msg, want, got)
	}
}

func assertEqualInts(t *testing.T, want, got []int, msg string) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: expected %v, got %v", msg, want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("%s: expected %v, got %v", msg, want, got)
			return
		}
	}
}

func TestNewRawStrides(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3, 4}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}

	assertEqualShape(t, Shape{2, 3, 4}, raw.Shape(), "NewRaw shape")
	assertEqualInts(t, []int{12, 4, 1}, raw.Strides(), "NewRaw strides")

	if !raw.IsContiguous() {
		t.Error("freshly allocated tensor should be contiguous")
	}
}

func TestNewRawZeroSizeDimension(t *testing.T) {
	raw, err := NewRaw(Shape{5, 0, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw with zero-size dimension: %v", err)
	}
	if raw.NumElements() != 0 {
		t.Errorf("expected 0 elements, got %d", raw.NumElements())
	}
}

func TestNewRawNegativeDimension(t *testing.T) {
	if _, err := NewRaw(Shape{2, -1}, Float32, CPU); err == nil {
		t.Error("expected error for negative dimension")
	}
}

func TestExpandZeroStrideView(t *testing.T) {
	src, err := NewRaw(Shape{1, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	copy(src.AsFloat32(), []float32{1, 2, 3})

	view, err := src.Expand(Shape{4, 3})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	assertEqualShape(t, Shape{4, 3}, view.Shape(), "Expand shape")
	assertEqualInts(t, []int{0, 1}, view.Strides(), "Expand strides")

	if !view.SharesBufferWith(src) {
		t.Error("Expand must return a zero-copy view sharing the source buffer")
	}

	// Writes through the source are visible in the view.
	src.AsFloat32()[1] = 42
	if got := view.AsFloat32()[view.ElemOffset(3, 1)]; got != 42 {
		t.Errorf("view does not alias source memory: got %v, want 42", got)
	}
}

func TestExpandAddsLeadingDimensions(t *testing.T) {
	src, err := NewRaw(Shape{3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}

	view, err := src.Expand(Shape{2, 5, 3})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	assertEqualInts(t, []int{0, 0, 1}, view.Strides(), "leading broadcast strides")
}

func TestExpandIncompatible(t *testing.T) {
	src, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if _, err := src.Expand(Shape{4, 3}); err == nil {
		t.Error("expected error expanding a non-unit dimension")
	}
	if _, err := src.Expand(Shape{3}); err == nil {
		t.Error("expected error expanding to fewer dimensions")
	}
}

func TestContiguousFastPath(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}

	if got := raw.Contiguous(); got != raw {
		t.Error("Contiguous on a contiguous tensor must return the same tensor")
	}
}

func TestContiguousMaterializesBroadcast(t *testing.T) {
	src, err := NewRaw(Shape{1, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	copy(src.AsFloat32(), []float32{1, 2, 3})

	view, err := src.Expand(Shape{4, 3})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	packed := view.Contiguous()

	assertEqualShape(t, Shape{4, 3}, packed.Shape(), "materialized shape")
	assertEqualInts(t, []int{3, 1}, packed.Strides(), "materialized strides")
	for _, s := range packed.Strides() {
		if s == 0 {
			t.Fatal("materialized tensor must have no zero strides")
		}
	}

	if packed.SharesBufferWith(src) {
		t.Error("materialized copy must not alias the source storage")
	}

	data := packed.AsFloat32()[:packed.NumElements()]
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			want := float32(col + 1)
			if got := data[row*3+col]; got != want {
				t.Errorf("element [%d,%d] = %v, want %v", row, col, got, want)
			}
		}
	}

	// Mutating the source after the copy must not change the copy.
	src.AsFloat32()[0] = 99
	if data[0] != 1 {
		t.Error("materialized copy changed after source mutation")
	}
}

func TestContiguousIdempotent(t *testing.T) {
	src, err := NewRaw(Shape{1, 2}, Float64, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	view, err := src.Expand(Shape{3, 2})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	once := view.Contiguous()
	twice := once.Contiguous()
	if once != twice {
		t.Error("second Contiguous call must be the no-copy fast path")
	}
}

func TestContiguousScalar(t *testing.T) {
	scalar, err := NewRaw(Shape{}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if got := scalar.Contiguous(); got != scalar {
		t.Error("scalar has no strides to normalize and must be returned unchanged")
	}
}

func TestContiguousEmptyBroadcast(t *testing.T) {
	// A tensor with a zero-size dimension can still carry a zero-stride
	// broadcast dimension elsewhere.
	src, err := NewRaw(Shape{1, 0}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	view, err := src.Expand(Shape{5, 0})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	packed := view.Contiguous()
	assertEqualShape(t, Shape{5, 0}, packed.Shape(), "empty materialized shape")
	if packed.NumElements() != 0 {
		t.Errorf("expected empty tensor, got %d elements", packed.NumElements())
	}
	for _, s := range packed.Strides() {
		if s == 0 {
			t.Fatal("materialized empty tensor must have no zero strides")
		}
	}
	if packed.SharesBufferWith(src) {
		t.Error("materialized empty tensor must not alias the source")
	}
}

func TestCloneSharesBuffer(t *testing.T) {
	raw, err := NewRaw(Shape{4}, Int32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}

	clone := raw.Clone()
	if !clone.SharesBufferWith(raw) {
		t.Error("Clone must share the buffer")
	}
	if raw.IsUnique() {
		t.Error("buffer must not be unique after Clone")
	}

	clone.Release()
	if !raw.IsUnique() {
		t.Error("buffer must be unique again after releasing the clone")
	}
}
