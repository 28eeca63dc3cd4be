package cms

import "testing"

// Property 6 (§8): after construction, Convert performs no allocations on
// a primitive-only path, where every StageFunc reads and writes its
// caller-supplied slices without allocating (see primitive.go's StageFunc
// doc comment). ICC-backed stages copy out of icc.Transform.Apply's own
// return slice and are exempt from this property.
func TestConverterConvertAllocationFree(t *testing.T) {
	in := NewColorValues(SRGB, []float64{0.2, 0.4, 0.6})
	out := NewColor(NonRGBColorspace(KindLab, WhiteD65))
	c, err := NewConverter(in, out)
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	defer c.Dispose()

	allocs := testing.AllocsPerRun(1000, func() {
		if err := c.Convert(); err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
	})
	if allocs != 0 {
		t.Fatalf("expected 0 allocations per Convert, got %v", allocs)
	}
}

// Property 8 (§8): removing a registered conversion path after a Converter
// is constructed over it must not change that Converter's behavior, since
// the Plan and its fused closure were already built from a point-in-time
// registry snapshot.
func TestConverterUnaffectedByLaterRegistryMutation(t *testing.T) {
	in := NewColorValues(SRGB, []float64{0.2, 0.4, 0.6})
	out := NewColor(NonRGBColorspace(KindLab, WhiteD65))
	c, err := NewConverter(in, out)
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	defer c.Dispose()

	RemoveConversionPath(KindRGB, KindXYZ)
	defer AddConversionPath(KindRGB, KindXYZ, buildRGBToXYZ)

	if err := c.Convert(); err != nil {
		t.Fatalf("Convert after registry mutation failed: %v", err)
	}
	if out.Values[0] == 0 && out.Values[1] == 0 && out.Values[2] == 0 {
		t.Fatal("expected a real Lab result, got all zeros")
	}
}

func TestConverterIdentity(t *testing.T) {
	space := SRGB
	in := NewColorValues(space, []float64{0.2, 0.4, 0.6})
	out := NewColor(space)

	c, err := NewConverter(in, out)
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	defer c.Dispose()

	if err := c.Convert(); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	for i := range in.Values {
		if !almostEqual(in.Values[i], out.Values[i], 1e-9) {
			t.Errorf("channel %d: got %v want %v", i, out.Values[i], in.Values[i])
		}
	}
}

func TestConverterRGBToLabAndBack(t *testing.T) {
	in := NewColorValues(SRGB, []float64{0.8, 0.2, 0.4})
	lab := NewColor(NonRGBColorspace(KindLab, WhiteD65))

	fwd, err := NewConverter(in, lab)
	if err != nil {
		t.Fatalf("forward NewConverter failed: %v", err)
	}
	defer fwd.Dispose()
	if err := fwd.Convert(); err != nil {
		t.Fatalf("forward Convert failed: %v", err)
	}

	back := NewColor(SRGB)
	bwd, err := NewConverter(lab, back)
	if err != nil {
		t.Fatalf("backward NewConverter failed: %v", err)
	}
	defer bwd.Dispose()
	if err := bwd.Convert(); err != nil {
		t.Fatalf("backward Convert failed: %v", err)
	}

	for i := range in.Values {
		if !almostEqual(in.Values[i], back.Values[i], 1e-6) {
			t.Errorf("channel %d: got %v want %v", i, back.Values[i], in.Values[i])
		}
	}
}

func TestConverterReuseAfterMutatingInput(t *testing.T) {
	in := NewColorValues(SRGB, []float64{0, 0, 0})
	out := NewColor(SRGB)
	c, err := NewConverter(in, out)
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	defer c.Dispose()

	if err := c.Convert(); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if out.Values[0] != 0 {
		t.Fatalf("expected black to stay black")
	}

	in.Values[0], in.Values[1], in.Values[2] = 1, 1, 1
	if err := c.Convert(); err != nil {
		t.Fatalf("second Convert failed: %v", err)
	}
	for _, v := range out.Values {
		if !almostEqual(v, 1, 1e-9) {
			t.Fatalf("expected converter to reflect mutated input, got %v", out.Values)
		}
	}
}

func TestConverterDisposeIsIdempotent(t *testing.T) {
	in := NewColorValues(SRGB, []float64{0, 0, 0})
	out := NewColor(SRGB)
	c, err := NewConverter(in, out)
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	c.Dispose()
	c.Dispose()

	if err := c.Convert(); err == nil {
		t.Fatal("expected Convert on disposed Converter to fail")
	}
}

func TestNewConverterRejectsNilColor(t *testing.T) {
	out := NewColor(SRGB)
	if _, err := NewConverter(nil, out); err == nil {
		t.Fatal("expected ArgumentNull error for nil input color")
	}
}

func TestNewConverterRejectsMismatchedValueCount(t *testing.T) {
	in := NewColorValues(SRGB, []float64{0, 0})
	out := NewColor(SRGB)
	if _, err := NewConverter(in, out); err == nil {
		t.Fatal("expected error for a value count mismatching the colorspace's channel count")
	}
}
