package neuron

// Error is the fixed result-code vocabulary of the vendor runtime. Every
// public call returns one of these; the numeric values are part of the
// compatibility contract and must not be reordered.
type Error int

const (
	NoError            Error = 0
	BadData            Error = 1
	BadState           Error = 2
	UnexpectedNull     Error = 3
	Incomplete         Error = 4
	OutputInsufficient Error = 5
	Unavailable        Error = 6
	OpFailed           Error = 7
	Unmappable         Error = 8
)

func (e Error) String() string {
	switch e {
	case NoError:
		return "no error"
	case BadData:
		return "bad data"
	case BadState:
		return "bad state"
	case UnexpectedNull:
		return "unexpected null"
	case Incomplete:
		return "incomplete"
	case OutputInsufficient:
		return "output insufficient"
	case Unavailable:
		return "unavailable"
	case OpFailed:
		return "operation failed"
	case Unmappable:
		return "unmappable"
	default:
		return "unknown error"
	}
}

// Ok reports whether the call succeeded.
func (e Error) Ok() bool { return e == NoError }
