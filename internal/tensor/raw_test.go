package tensor

import (
	"testing"
)

// RawTensor Tests

func TestRawTensorAsFloat32(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Float32, CPU)
	data := raw.AsFloat32()

	if len(data) != 6 {
		t.Errorf("AsFloat32 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsFloat32()[0] != 42 {
		t.Error("AsFloat32 should return zero-copy slice")
	}
}

func TestRawTensorAsFloat64(t *testing.T) {
	raw, _ := NewRaw(Shape{4}, Float64, CPU)
	data := raw.AsFloat64()

	if len(data) != 4 {
		t.Errorf("AsFloat64 length = %d, want 4", len(data))
	}

	data[3] = -1.5
	if Values[float64](raw)[3] != -1.5 {
		t.Error("Values should alias AsFloat64")
	}
}

func TestRawTensorWrongDTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)

	defer func() {
		if recover() == nil {
			t.Error("AsFloat64 on a float32 tensor should panic")
		}
	}()
	_ = raw.AsFloat64()
}

func TestRawTensorInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("NewRaw should reject a zero dimension")
	}
}

func TestRawTensorReshapeReusesAllocation(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 3}, Float32, CPU)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32(i + 1)
	}

	// Shrinking keeps the allocation and the leading contents.
	if err := raw.Reshape(Shape{4}); err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if raw.NumElements() != 4 || raw.Capacity() != 6 {
		t.Errorf("after shrink: elements=%d capacity=%d, want 4 and 6", raw.NumElements(), raw.Capacity())
	}
	if got := raw.AsFloat32()[3]; got != 4 {
		t.Errorf("contents changed on shrink: got %v, want 4", got)
	}

	// Growing allocates.
	if err := raw.Reshape(Shape{3, 3}); err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if raw.Capacity() != 9 {
		t.Errorf("capacity after grow = %d, want 9", raw.Capacity())
	}
}

func TestRawTensorCloneIsDeep(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float64, CPU)
	raw.AsFloat64()[0] = 7

	c := raw.Clone()
	c.AsFloat64()[0] = 8

	if raw.AsFloat64()[0] != 7 {
		t.Error("Clone must not share storage")
	}
	if !c.Shape().Equal(raw.Shape()) {
		t.Errorf("Clone shape = %v, want %v", c.Shape(), raw.Shape())
	}
}

func TestRawTensorCopyFromAndZero(t *testing.T) {
	src, _ := NewRaw(Shape{3}, Float32, CPU)
	copy(src.AsFloat32(), []float32{1, 2, 3})

	dst, _ := NewRaw(Shape{1, 3}, Float32, CPU)
	dst.CopyFrom(src)
	if got := dst.AsFloat32(); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("CopyFrom = %v, want [1 2 3]", got)
	}

	dst.Zero()
	for i, v := range dst.AsFloat32() {
		if v != 0 {
			t.Errorf("Zero left element %d = %v", i, v)
		}
	}
}

func TestEmptyRawTensor(t *testing.T) {
	raw := newEmptyRaw(Float32, CPU)
	if raw.NumElements() != 0 {
		t.Errorf("empty NumElements = %d, want 0", raw.NumElements())
	}
	if raw.AsFloat32() != nil {
		t.Error("empty AsFloat32 should be nil")
	}
	if c := raw.Clone(); c.Shape() != nil {
		t.Errorf("clone of empty tensor has shape %v", c.Shape())
	}
}
