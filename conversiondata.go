package cms

// ConversionData holds every asset and scratch buffer a fused Plan needs
// to run: immutable derived tables built once at assembly time, and the
// temp buffers stages read and write between each other. A Converter
// owns exactly one ConversionData for its lifetime.
type ConversionData struct {
	temps [][]float64
}

// newConversionData allocates one buffer per Plan boundary (N+1 for an
// N-stage Plan, source and destination ends included), each sized to the
// channel count at that boundary. At run time the assembled closure uses
// the caller's input and output slices at the two ends, so only the
// internal buffers are written.
func newConversionData(plan *Plan) *ConversionData {
	widths := plan.channelWidths()
	temps := make([][]float64, len(widths))
	for i, w := range widths {
		temps[i] = make([]float64, w)
	}
	return &ConversionData{temps: temps}
}

// release drops references to every temp buffer so the GC can reclaim
// them, matching the documented temps-before-CLUTs-before-pins release
// order (CLUTs live inside the icc subpackage's own Transform values,
// themselves reachable only through the Stage closures already dropped
// by the time release is called).
func (d *ConversionData) release() {
	d.temps = nil
}
