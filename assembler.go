package cms

// assemble turns a Plan into one fused callable plus the ConversionData
// it closes over. The callable walks plan.Stages, feeding each stage's
// output into the next stage's input buffer (or the final output for
// the last stage), with no intermediate heap allocation after assembly:
// every buffer is sized once here and reused on every Convert call.
//
// Grounded on the icc subpackage's Lut.Apply dispatch shape: one
// indirect call per stage, nothing further.
func assemble(plan *Plan) (func(in, out []float64, data *ConversionData), *ConversionData) {
	data := newConversionData(plan)
	stages := plan.Stages

	if len(stages) == 0 {
		return func(in, out []float64, _ *ConversionData) {
			copy(out, in)
		}, data
	}

	fn := func(in, out []float64, data *ConversionData) {
		data.temps[0] = in
		for i, st := range stages {
			var dst []float64
			if i == len(stages)-1 {
				dst = out
			} else {
				dst = data.temps[i+1]
			}
			st.Func(data.temps[i], dst)
			if i < len(stages)-1 {
				data.temps[i+1] = dst
			}
		}
	}
	return fn, data
}
