package cms

import "github.com/colorcore/cms/icc"

// toICCIntent maps a cms RenderingIntent onto the icc package's own
// RenderingIntent enum. Both use the same four ICC-defined ordinal
// values, so this is a plain re-tag rather than a lookup table.
func toICCIntent(i RenderingIntent) icc.RenderingIntent {
	return icc.RenderingIntent(i)
}

// buildIccForward returns a StageFunc that drives profile p's
// device-to-PCS transform at the given rendering intent. It is the Build
// function behind every IccForward Stage the Planner emits.
func buildIccForward(p *icc.Profile, intent RenderingIntent) (StageFunc, error) {
	t, err := icc.NewTransform(p, icc.DeviceToPCS, toICCIntent(intent))
	if err != nil {
		return nil, errConversionSetupWrap("buildIccForward", "failed to build device-to-PCS transform", err)
	}
	return func(in, out []float64) {
		result := t.Apply(in)
		copy(out, result)
	}, nil
}

// buildIccBackward returns a StageFunc driving profile p's PCS-to-device
// transform at the given rendering intent.
func buildIccBackward(p *icc.Profile, intent RenderingIntent) (StageFunc, error) {
	t, err := icc.NewTransform(p, icc.PCSToDevice, toICCIntent(intent))
	if err != nil {
		return nil, errConversionSetupWrap("buildIccBackward", "failed to build PCS-to-device transform", err)
	}
	return func(in, out []float64) {
		result := t.Apply(in)
		copy(out, result)
	}, nil
}
