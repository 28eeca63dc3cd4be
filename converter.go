package cms

import "runtime"

// Converter is the facade driving a single (InColor, OutColor) pipeline.
// Construction validates inputs, plans a Stage chain, and fuses it into
// one callable; Convert re-runs that callable against whatever values
// currently sit in InColor.Values. A Converter is not safe for
// concurrent Convert calls; distinct Converters over distinct Colors may
// run on distinct goroutines freely.
type Converter struct {
	in, out *Color
	data    *ConversionData
	run     func(in, out []float64, data *ConversionData)
	plan    *Plan

	disposed bool
}

// NewConverter validates inColor and outColor, plans and assembles the
// Stage chain between their Colorspaces, and returns a Converter ready
// to run. Planning failures surface here, never from Convert.
func NewConverter(inColor, outColor *Color) (*Converter, error) {
	const op = "NewConverter"

	if err := validateColor(op, inColor); err != nil {
		return nil, err
	}
	if err := validateColor(op, outColor); err != nil {
		return nil, err
	}

	Init()

	plan, err := planConversion(inColor.Space, outColor.Space)
	if err != nil {
		return nil, err
	}

	run, data := assemble(plan)

	c := &Converter{
		in:   inColor,
		out:  outColor,
		data: data,
		run:  run,
		plan: plan,
	}
	runtime.SetFinalizer(c, func(c *Converter) { c.Dispose() })
	return c, nil
}

// Convert runs the fused pipeline once, reading c.in.Values and writing
// c.out.Values in place. The caller must not mutate c.out.Values while
// this call is in progress.
func (c *Converter) Convert() error {
	if c.disposed {
		return errDisposed("Convert")
	}
	c.run(c.in.Values, c.out.Values, c.data)
	return nil
}

// Plan exposes the assembled Stage chain, chiefly for tests asserting
// planner determinism (§8 property 5).
func (c *Converter) Plan() *Plan {
	return c.plan
}

// Dispose releases the Converter's ConversionData and drops its
// callable. Idempotent; safe to call more than once and safe to call
// from the finalizer path installed at construction.
func (c *Converter) Dispose() {
	if c.disposed {
		return
	}
	if c.data != nil {
		c.data.release()
	}
	c.data = nil
	c.run = nil
	c.in = nil
	c.out = nil
	c.disposed = true
	runtime.SetFinalizer(c, nil)
}
