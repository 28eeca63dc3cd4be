package cms

import "fmt"

// ErrorKind classifies the errors this package returns, mirroring the taxonomy
// the seehuhn.de/go/icc package uses for its own InvalidProfileError: a
// small closed set of named failure modes rather than ad-hoc sentinels.
type ErrorKind int

const (
	// ArgumentNull indicates a required color or profile was missing.
	ArgumentNull ErrorKind = iota
	// ConversionSetup indicates the planner could not bridge the two spaces.
	ConversionSetup
	// IccProfileInvariant indicates a profile's tags were inconsistent.
	IccProfileInvariant
	// Disposed indicates an operation was invoked on a disposed Converter.
	Disposed
)

func (k ErrorKind) String() string {
	switch k {
	case ArgumentNull:
		return "ArgumentNull"
	case ConversionSetup:
		return "ConversionSetup"
	case IccProfileInvariant:
		return "IccProfileInvariant"
	case Disposed:
		return "Disposed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the error type returned by every exported operation in this
// package. Op names the operation that failed (e.g. "NewConverter").
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cms: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("cms: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, cms.ErrDisposed) style checks against the
// exported sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors usable with errors.Is to test the Kind of a returned
// error without constructing one by hand.
var (
	ErrArgumentNull        = &Error{Kind: ArgumentNull}
	ErrConversionSetup     = &Error{Kind: ConversionSetup}
	ErrIccProfileInvariant = &Error{Kind: IccProfileInvariant}
	ErrDisposed            = &Error{Kind: Disposed}
)

func errArgumentNull(op, message string) error {
	return &Error{Kind: ArgumentNull, Op: op, Message: message}
}

func errConversionSetup(op, message string) error {
	return &Error{Kind: ConversionSetup, Op: op, Message: message}
}

func errConversionSetupWrap(op, message string, cause error) error {
	return &Error{Kind: ConversionSetup, Op: op, Message: message, Err: cause}
}

func errIccProfileInvariant(op, message string, cause error) error {
	return &Error{Kind: IccProfileInvariant, Op: op, Message: message, Err: cause}
}

func errDisposed(op string) error {
	return &Error{Kind: Disposed, Op: op, Message: "converter has been disposed"}
}
