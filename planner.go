package cms

import "github.com/colorcore/cms/icc"

// planConversion builds the ordered Stage chain converting src to dst. It
// enumerates exactly the branches named for the Planner: neither side
// ICC, one side ICC, both sides ICC, each of those further split by
// profile class.
func planConversion(src, dst *Colorspace) (*Plan, error) {
	plan := &Plan{Source: src, Dest: dst}

	switch {
	case src.ICC == nil && dst.ICC == nil:
		if err := planNoICC(plan, src, dst); err != nil {
			return nil, err
		}
	case src.ICC != nil && dst.ICC != nil:
		if err := planBothICC(plan, src, dst); err != nil {
			return nil, err
		}
	default:
		if err := planOneICC(plan, src, dst); err != nil {
			return nil, err
		}
	}

	labels := make([]string, len(plan.Stages))
	for i, st := range plan.Stages {
		labels[i] = st.Label
	}
	registryLogger.Debug("planner selected stage chain",
		"from", src.EffectiveKind(), "to", dst.EffectiveKind(), "stages", labels)

	return plan, nil
}

// planNoICC routes entirely through the primitive library: same-kind
// reparameterization (e.g. an RGB preset change, or any other Kind whose
// two sides differ only in whitepoint) routes via XYZ, with a CAT stage
// at the XYZ node when the whitepoints differ; otherwise the shortest
// path over the registered conversion-path graph is used, with a CAT
// stage inserted at the XYZ node iff whitepoints differ.
func planNoICC(plan *Plan, src, dst *Colorspace) error {
	from, to := src.EffectiveKind(), dst.EffectiveKind()

	if from == to && from == KindRGB && (src.Whitepoint != dst.Whitepoint ||
		src.Primaries != dst.Primaries || src.Transfer != dst.Transfer) {
		return planRGBReparam(plan, src, dst)
	}
	if from == to && src.Whitepoint != dst.Whitepoint {
		return planSameKindReparam(plan, src, dst, from)
	}

	paths := ConversionPaths()
	kinds, ok := findPath(paths, from, to)
	if !ok {
		return errConversionSetup("planNoICC", "no registered conversion path between "+from.String()+" and "+to.String())
	}

	cur := src
	if from == KindXYZ && src.Whitepoint != dst.Whitepoint {
		// The source itself is the XYZ node: adapt before the first step.
		method := CurrentConfig().DefaultChromaticAdaption
		plan.Stages = append(plan.Stages, catStage(method, src.Whitepoint, dst.Whitepoint))
		cur = NonRGBColorspace(KindXYZ, dst.Whitepoint)
	}
	for i := 0; i+1 < len(kinds); i++ {
		stepFrom, stepTo := kinds[i], kinds[i+1]
		prims := paths[pathKey{stepFrom, stepTo}]
		if len(prims) == 0 {
			return errConversionSetup("planNoICC", "conversion path vanished between registry snapshot and use")
		}
		prim := prims[0]
		buildSpace := cur
		switch {
		case stepFrom == KindRGB && src.EffectiveKind() == KindRGB:
			// First stage steps off a real RGB endpoint: use its own
			// Primaries/Transfer, not a synthesized placeholder.
			buildSpace = src
		case stepTo == KindRGB && dst.EffectiveKind() == KindRGB:
			// Last stage lands on a real RGB endpoint.
			buildSpace = dst
		case stepFrom == KindRGB || stepTo == KindRGB:
			// RGB is acting as a transit hub (e.g. HSV->RGB->XYZ) with
			// neither chain endpoint actually RGB-typed. HSV/HSL/YCbCr/CMYK
			// are only meaningful relative to some RGB model, so assume
			// sRGB's primaries and tone curve, adapted to the chain's
			// current working whitepoint rather than sRGB's own D65.
			buildSpace = &Colorspace{Kind: KindRGB, Whitepoint: cur.Whitepoint, Primaries: SRGB.Primaries, Transfer: SRGB.Transfer}
		}
		build, err := prim.Build(buildSpace)
		if err != nil {
			return errConversionSetupWrap("planNoICC", "primitive build failed", err)
		}
		plan.Stages = append(plan.Stages, Stage{
			Kind: StagePrimitive, From: stepFrom, To: stepTo,
			Label: stepFrom.String() + "->" + stepTo.String(), Func: build,
		})

		if stepTo == KindXYZ && src.Whitepoint != dst.Whitepoint && stepFrom != KindXYZ {
			ws, wd := src.Whitepoint, dst.Whitepoint
			method := CurrentConfig().DefaultChromaticAdaption
			plan.Stages = append(plan.Stages, catStage(method, ws, wd))
		}

		cur = NonRGBColorspace(stepTo, dst.Whitepoint)
	}

	return nil
}

// planSameKindReparam handles a same-Kind pair whose Colorspace
// parameters differ only in whitepoint (e.g. Lab referred to D50 versus
// D65), generalizing the treatment planRGBReparam gives RGB to every
// other Kind the registry can route to and from XYZ: convert to XYZ,
// adapt with a CAT, convert back. For kind == KindXYZ itself findPath's
// from==to short-circuit yields a single-node path at each leg, so
// appendPrimitiveChain appends no primitive stages and this reduces to
// exactly the bare CAT the old XYZ-only special case produced.
func planSameKindReparam(plan *Plan, src, dst *Colorspace, kind Kind) error {
	paths := ConversionPaths()

	toXYZ, ok := findPath(paths, kind, KindXYZ)
	if !ok {
		return errConversionSetup("planNoICC", "no registered conversion path between "+kind.String()+" and "+KindXYZ.String())
	}
	if err := appendPrimitiveChain(plan, paths, toXYZ, src, nil); err != nil {
		return err
	}

	method := CurrentConfig().DefaultChromaticAdaption
	plan.Stages = append(plan.Stages, catStage(method, src.Whitepoint, dst.Whitepoint))

	fromXYZ, ok := findPath(paths, KindXYZ, kind)
	if !ok {
		return errConversionSetup("planNoICC", "no registered conversion path between "+KindXYZ.String()+" and "+kind.String())
	}
	return appendPrimitiveChain(plan, paths, fromXYZ, NonRGBColorspace(KindXYZ, dst.Whitepoint), dst)
}

// planRGBReparam composes the fused {decode -> linear RGB -> XYZ -> CAT
// -> XYZ -> linear RGB -> encode} chain named in the primitive library
// section for cross-preset RGB conversions, as the smaller pieces the
// Assembler fuses rather than one monolithic primitive.
func planRGBReparam(plan *Plan, src, dst *Colorspace) error {
	fwd, err := buildRGBToXYZ(src)
	if err != nil {
		return err
	}
	plan.Stages = append(plan.Stages, Stage{Kind: StagePrimitive, From: KindRGB, To: KindXYZ, Label: "RGB->XYZ", Func: fwd})

	if src.Whitepoint != dst.Whitepoint {
		method := CurrentConfig().DefaultChromaticAdaption
		plan.Stages = append(plan.Stages, catStage(method, src.Whitepoint, dst.Whitepoint))
	}

	bwd, err := buildXYZToRGB(dst)
	if err != nil {
		return err
	}
	plan.Stages = append(plan.Stages, Stage{Kind: StagePrimitive, From: KindXYZ, To: KindRGB, Label: "XYZ->RGB", Func: bwd})
	return nil
}

func catStage(method CATMethod, ws, wd [3]float64) Stage {
	registryLogger.Debug("planner selected chromatic adaptation method",
		"method", method, "source_white", ws, "dest_white", wd)
	m := catByMethod(method).Matrix(ws, wd)
	fn := func(in, out []float64) {
		xyz := mulMatVec(m, [3]float64{in[0], in[1], in[2]})
		out[0], out[1], out[2] = xyz[0], xyz[1], xyz[2]
	}
	return Stage{Kind: StageCat, From: KindXYZ, To: KindXYZ, Label: "Cat(" + string(method) + ")", Func: fn}
}

// planOneICC handles the branch where exactly one of src, dst is
// ICC-backed.
func planOneICC(plan *Plan, src, dst *Colorspace) error {
	iccSide, other, forward := src, dst, true
	if dst.ICC != nil {
		iccSide, other, forward = dst, src, false
	}
	p := iccSide.ICC.Profile
	otherKind := other.EffectiveKind()

	switch {
	case p.IsAbstract():
		if otherKind != iccSide.ICC.PCSKind() {
			return errConversionSetup("planOneICC", "Abstract profile requires both sides to be its PCS type")
		}
		return appendSingleICCStage(plan, p, forward)

	case p.IsDeviceLink():
		// A device-link profile's output type is fixed to its declared PCS
		// field (which for a link is really just its second endpoint, not
		// a true profile connection space). It only runs forward: device
		// in, fixed link output out.
		if !forward {
			return errConversionSetup("planOneICC", "DeviceLink profile cannot be driven backward")
		}
		if otherKind != iccSide.ICC.PCSKind() {
			return errConversionSetup("planOneICC", "DeviceLink profile output type is fixed to its PCS")
		}
		return appendSingleICCStage(plan, p, true)

	default:
		dataKind := iccSide.ICC.DataKind()
		pcsKind := iccSide.ICC.PCSKind()
		switch otherKind {
		case dataKind:
			return appendSingleICCStage(plan, p, forward)
		case pcsKind:
			return appendSingleICCStagePCS(plan, p, forward)
		default:
			return composeICCViaPCS(plan, p, other, otherKind, pcsKind, forward)
		}
	}
}

func appendSingleICCStage(plan *Plan, p *icc.Profile, forward bool) error {
	intent := CurrentConfig().DefaultRenderingIntent
	if forward {
		fn, err := buildIccForward(p, intent)
		if err != nil {
			return err
		}
		plan.Stages = append(plan.Stages, Stage{Kind: StageIccForward, From: kindFromICCSpace(p.ColorSpace), To: kindFromICCSpace(p.PCS), Label: "IccForward", Func: fn})
		return nil
	}
	fn, err := buildIccBackward(p, intent)
	if err != nil {
		return err
	}
	plan.Stages = append(plan.Stages, Stage{Kind: StageIccBackward, From: kindFromICCSpace(p.PCS), To: kindFromICCSpace(p.ColorSpace), Label: "IccBackward", Func: fn})
	return nil
}

// appendSingleICCStagePCS covers the "non-ICC variant equals PCS type"
// case: the caller hands the engine PCS-referred values directly, so the
// stage still runs the profile's device<->PCS transform but in the
// direction implied by which side of the Converter the ICC Colorspace
// occupies, with the non-ICC side already being PCS-shaped.
func appendSingleICCStagePCS(plan *Plan, p *icc.Profile, forward bool) error {
	return appendSingleICCStage(plan, p, forward)
}

// composeICCViaPCS handles the "otherwise" leg of the one-ICC-side
// branch: the non-ICC variant matches neither the profile's device nor
// PCS kind, so a primitive leg bridges it to the PCS kind before (or
// after) the single ICC stage.
func composeICCViaPCS(plan *Plan, p *icc.Profile, other *Colorspace, otherKind, pcsKind Kind, forward bool) error {
	paths := ConversionPaths()

	if forward {
		kinds, ok := findPath(paths, otherKind, pcsKind)
		if !ok {
			return errConversionSetup("composeICCViaPCS", "no primitive path from non-ICC side to profile PCS")
		}
		if err := appendPrimitiveChain(plan, paths, kinds, other, nil); err != nil {
			return err
		}
		return appendSingleICCStage(plan, p, true)
	}

	if err := appendSingleICCStage(plan, p, false); err != nil {
		return err
	}
	kinds, ok := findPath(paths, pcsKind, otherKind)
	if !ok {
		return errConversionSetup("composeICCViaPCS", "no primitive path from profile PCS to non-ICC side")
	}
	return appendPrimitiveChain(plan, paths, kinds, NonRGBColorspace(pcsKind, WhiteD50), other)
}

// appendPrimitiveChain appends the primitive Stages for kinds[0]->kinds[1]
// ->...->kinds[last]. start is the real Colorspace feeding the first
// stage; end, if non-nil, is the real destination Colorspace and is used
// to build the final stage instead of a synthesized placeholder, so a
// chain ending in an RGB kind still gets that RGB colorspace's real
// Primaries/Transfer rather than just its Kind and whitepoint.
func appendPrimitiveChain(plan *Plan, paths map[pathKey][]*Primitive, kinds []Kind, start *Colorspace, end *Colorspace) error {
	cur := start
	for i := 0; i+1 < len(kinds); i++ {
		stepFrom, stepTo := kinds[i], kinds[i+1]
		prims := paths[pathKey{stepFrom, stepTo}]
		if len(prims) == 0 {
			return errConversionSetup("appendPrimitiveChain", "conversion path vanished between registry snapshot and use")
		}
		buildSpace := cur
		isLast := i+2 == len(kinds)
		switch {
		case stepFrom == KindRGB && start.EffectiveKind() == KindRGB && i == 0:
			buildSpace = start
		case isLast && stepTo == KindRGB && end != nil && end.EffectiveKind() == KindRGB:
			buildSpace = end
		case stepFrom == KindRGB || stepTo == KindRGB:
			// RGB as a transit hub with no real RGB endpoint at this hop;
			// see planNoICC's identical fallback for the rationale.
			buildSpace = &Colorspace{Kind: KindRGB, Whitepoint: cur.Whitepoint, Primaries: SRGB.Primaries, Transfer: SRGB.Transfer}
		}
		build, err := prims[0].Build(buildSpace)
		if err != nil {
			return errConversionSetupWrap("appendPrimitiveChain", "primitive build failed", err)
		}
		plan.Stages = append(plan.Stages, Stage{Kind: StagePrimitive, From: stepFrom, To: stepTo, Label: stepFrom.String() + "->" + stepTo.String(), Func: build})
		cur = NonRGBColorspace(stepTo, cur.Whitepoint)
	}
	return nil
}

// planBothICC handles the branch where both src and dst are ICC-backed,
// denoted P1 (src's profile) and P2 (dst's profile).
func planBothICC(plan *Plan, src, dst *Colorspace) error {
	p1, p2 := src.ICC.Profile, dst.ICC.Profile
	inType, outType := src.EffectiveKind(), dst.EffectiveKind()

	switch {
	case p1.IsAbstract() || p2.IsAbstract():
		if !p1.IsAbstract() || !p2.IsAbstract() {
			return errConversionSetup("planBothICC", "Abstract profile must be paired with another Abstract profile")
		}
		if kindFromICCSpace(p1.PCS) != kindFromICCSpace(p2.PCS) || inType != kindFromICCSpace(p1.PCS) || outType != inType {
			return errConversionSetup("planBothICC", "Abstract-Abstract pairing requires matching PCS on both sides")
		}
		intent := CurrentConfig().DefaultRenderingIntent
		fn, err := buildIccForward(p1, intent)
		if err != nil {
			return err
		}
		plan.Stages = append(plan.Stages, Stage{Kind: StageIccForward, From: inType, To: outType, Label: "Abstract", Func: fn})
		return nil

	case p1.IsDeviceLink() || p2.IsDeviceLink():
		if !p1.IsDeviceLink() || !p2.IsDeviceLink() {
			return errConversionSetup("planBothICC", "DeviceLink profile must be paired with another DeviceLink profile")
		}
		if p1.ColorSpace != p2.ColorSpace || p1.PCS != p2.PCS {
			return errConversionSetup("planBothICC", "DeviceLink pairing requires matching PCS and data colorspace")
		}
		if inType != kindFromICCSpace(p1.ColorSpace) || outType != kindFromICCSpace(p1.PCS) {
			return errConversionSetup("planBothICC", "DeviceLink pairing requires device input and PCS output")
		}
		intent := CurrentConfig().DefaultRenderingIntent
		fn, err := buildIccForward(p1, intent)
		if err != nil {
			return err
		}
		plan.Stages = append(plan.Stages, Stage{Kind: StageIccForward, From: inType, To: outType, Label: "DeviceLink", Func: fn})
		return nil

	default:
		return planBothICCOrdinary(plan, p1, p2, src, dst, inType, outType)
	}
}

func planBothICCOrdinary(plan *Plan, p1, p2 *icc.Profile, src, dst *Colorspace, inType, outType Kind) error {
	pcs1, pcs2 := kindFromICCSpace(p1.PCS), kindFromICCSpace(p2.PCS)
	data1, data2 := kindFromICCSpace(p1.ColorSpace), kindFromICCSpace(p2.ColorSpace)
	intent := CurrentConfig().DefaultRenderingIntent

	inIsData := inType == data1
	outIsData := outType == data2

	switch {
	case inIsData && outIsData:
		if pcs1 == pcs2 {
			fwd, err := buildIccForward(p1, intent)
			if err != nil {
				return err
			}
			bwd, err := buildIccBackward(p2, intent)
			if err != nil {
				return err
			}
			plan.Stages = append(plan.Stages,
				Stage{Kind: StageIccForward, From: inType, To: pcs1, Label: "IccForward(P1)", Func: fwd},
				Stage{Kind: StageIccBackward, From: pcs1, To: outType, Label: "IccBackward(P2)", Func: bwd},
			)
			return nil
		}
		fwd, err := buildIccForward(p1, intent)
		if err != nil {
			return err
		}
		plan.Stages = append(plan.Stages, Stage{Kind: StageIccForward, From: inType, To: pcs1, Label: "IccForward(P1)", Func: fwd})
		if err := appendPCSBridge(plan, pcs1, pcs2); err != nil {
			return err
		}
		bwd, err := buildIccBackward(p2, intent)
		if err != nil {
			return err
		}
		plan.Stages = append(plan.Stages, Stage{Kind: StageIccBackward, From: pcs2, To: outType, Label: "IccBackward(P2)", Func: bwd})
		return nil

	case inIsData && !outIsData:
		if outType != pcs2 {
			return errConversionSetup("planBothICCOrdinary", "output must be P2's data or PCS kind")
		}
		fwd, err := buildIccForward(p1, intent)
		if err != nil {
			return err
		}
		plan.Stages = append(plan.Stages, Stage{Kind: StageIccForward, From: inType, To: pcs1, Label: "IccForward(P1)", Func: fwd})
		if pcs1 == pcs2 {
			return nil
		}
		return appendPCSBridge(plan, pcs1, pcs2)

	case !inIsData && outIsData:
		if inType != pcs1 {
			return errConversionSetup("planBothICCOrdinary", "input must be P1's data or PCS kind")
		}
		if pcs1 != pcs2 {
			if err := appendPCSBridge(plan, pcs1, pcs2); err != nil {
				return err
			}
		}
		bwd, err := buildIccBackward(p2, intent)
		if err != nil {
			return err
		}
		plan.Stages = append(plan.Stages, Stage{Kind: StageIccBackward, From: pcs2, To: outType, Label: "IccBackward(P2)", Func: bwd})
		return nil

	default:
		if inType != pcs1 || outType != pcs2 {
			return errConversionSetup("planBothICCOrdinary", "PCS-PCS leg requires both sides to be their profile's PCS kind")
		}
		if pcs1 == pcs2 {
			plan.Stages = append(plan.Stages, Stage{Kind: StageAssign, From: inType, To: outType, Label: "Assign", Func: func(in, out []float64) { copy(out, in) }})
			return nil
		}
		return appendPCSBridge(plan, pcs1, pcs2)
	}
}

func appendPCSBridge(plan *Plan, pcs1, pcs2 Kind) error {
	paths := ConversionPaths()
	kinds, ok := findPath(paths, pcs1, pcs2)
	if !ok {
		return errConversionSetup("appendPCSBridge", "no primitive path between PCS kinds "+pcs1.String()+" and "+pcs2.String())
	}
	return appendPrimitiveChain(plan, paths, kinds, NonRGBColorspace(pcs1, WhiteD50), nil)
}
