// Package corerr defines the stable error codes shared by the FFT,
// channelizer, and resampler packages. A zero value means success, and
// every failure maps to one of a small, closed set of negative codes so
// callers across a language boundary can switch on an integer instead of
// parsing a message.
package corerr

// Code is a stable, negative error code. The zero value means success and
// is never wrapped in an Error.
type Code int32

const (
	// OK is success. It is never returned wrapped in an *Error.
	OK Code = 0

	// InvalidArgument covers a null pointer, a negative count, an
	// out-of-range channel count, or any other malformed caller input.
	InvalidArgument Code = -1

	// InvalidSize covers an FFT size outside [2, max] or not a power of two.
	InvalidSize Code = -2

	// NoMemory covers any allocation failure during construction.
	NoMemory Code = -3

	// NotImplemented is reserved for future kernels; the present code never
	// returns it, but it is part of the stable contract.
	NotImplemented Code = -4
)

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case InvalidArgument:
		return "invalid argument"
	case InvalidSize:
		return "invalid size"
	case NoMemory:
		return "no memory"
	case NotImplemented:
		return "not implemented"
	default:
		return "unknown error"
	}
}

// Error wraps a Code with a human-readable message. It satisfies the error
// interface so core packages can be used like any other Go library, while
// still exposing the stable numeric Code for callers that need it (e.g. a
// cgo boundary built on top of this package later).
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Msg
}

// New constructs an *Error for the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// As reports whether err is a *Error and, if so, returns its Code.
func As(err error) (Code, bool) {
	e, ok := err.(*Error)
	if !ok {
		return OK, false
	}
	return e.Code, true
}
