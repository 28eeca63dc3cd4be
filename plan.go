package cms

// StageKind labels the origin of a Stage, used for diagnostics and for
// the Assembler's buffer-sizing pass; execution itself only needs Func.
type StageKind int

const (
	StagePrimitive StageKind = iota
	StageIccForward
	StageIccBackward
	StageCat
	StageAssign
)

func (k StageKind) String() string {
	switch k {
	case StageIccForward:
		return "IccForward"
	case StageIccBackward:
		return "IccBackward"
	case StageCat:
		return "Cat"
	case StageAssign:
		return "Assign"
	default:
		return "Primitive"
	}
}

// Stage is one leg of a Plan: a single function taking a
// fixed-width input and writing a fixed-width output, plus the metadata
// the Assembler needs to size the buffer it reads from and writes to.
type Stage struct {
	Kind     StageKind
	From, To Kind
	Label    string
	Func     StageFunc
}

// Plan is the ordered list of Stages the Planner produces for a single
// (source, destination) Colorspace pair. A Plan owns no mutable state of
// its own; the Assembler turns it into a single fused closure plus the
// ConversionData a Converter drives repeatedly.
type Plan struct {
	Source, Dest *Colorspace
	Stages       []Stage
}

// channelWidths returns, for an N-stage Plan, the N+1 buffer widths
// needed to run it: the source width, each intermediate Stage.To width,
// and implicitly the destination width (equal to the last stage's To).
func (p *Plan) channelWidths() []int {
	widths := make([]int, len(p.Stages)+1)
	if len(p.Stages) == 0 {
		widths[0] = p.Source.EffectiveKind().NumChannels()
		return widths
	}
	widths[0] = p.Stages[0].From.NumChannels()
	for i, st := range p.Stages {
		widths[i+1] = st.To.NumChannels()
	}
	return widths
}
