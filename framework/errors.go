package framework

// Kind identifies the taxonomy of error conditions a component can
// report, matching spec.md §7 one-for-one. It replaces the C
// implementation's per-module numeric offset scheme: every component's
// *Error carries the same Kind enum plus the offending parameter, so a
// single type can travel across package boundaries without losing
// identity.
type Kind int

const (
	_ Kind = iota
	ErrInvalidParameter
	ErrUnableToOpenFile
	ErrFileParse
	ErrDevice
	ErrDeviceBusy
	ErrTimeout
	ErrOutOfMemory
	ErrBufferTooSmall
	ErrPictureTooOld
	ErrPictureTooSmall
	ErrNoMatchingPicture
	ErrNoCaptureStarted
	ErrNoAreaOfInterestSet
	ErrFrameBufferBusy
	ErrCannotDelete
	ErrUnsupportedFormat
	ErrWrongImageFormat
	ErrNoMoreChains
	ErrNegativeAcknowledge
	ErrNoMessageAvailable
	ErrCannotUnload
	ErrAlreadyInitialized
	ErrNothingToAbort
)

var kindNames = map[Kind]string{
	ErrInvalidParameter:    "invalid-parameter",
	ErrUnableToOpenFile:    "unable-to-open-file",
	ErrFileParse:           "file-parse-error",
	ErrDevice:              "device",
	ErrDeviceBusy:          "device-busy",
	ErrTimeout:             "timeout",
	ErrOutOfMemory:         "out-of-memory",
	ErrBufferTooSmall:      "buffer-too-small",
	ErrPictureTooOld:       "picture-too-old",
	ErrPictureTooSmall:     "picture-too-small",
	ErrNoMatchingPicture:   "no-matching-picture",
	ErrNoCaptureStarted:    "no-capture-started",
	ErrNoAreaOfInterestSet: "no-area-of-interest-set",
	ErrFrameBufferBusy:     "frame-buffer-busy",
	ErrCannotDelete:        "cannot-delete",
	ErrUnsupportedFormat:   "unsupported-format",
	ErrWrongImageFormat:    "wrong-image-format",
	ErrNoMoreChains:        "no-more-chains-available",
	ErrNegativeAcknowledge: "negative-acknowledge",
	ErrNoMessageAvailable:  "no-message-available",
	ErrCannotUnload:        "cannot-unload",
	ErrAlreadyInitialized:  "already-initialized",
	ErrNothingToAbort:      "nothing-to-abort",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown-error"
}

// Error is the sum type every Oscar component returns: a Kind, the
// module that raised it, the offending parameter (if any), and an
// optional wrapped cause.
type Error struct {
	Kind   Kind
	Module string
	Param  string
	Cause  error
}

func (e *Error) Error() string {
	s := e.Module + ": " + e.Kind.String()
	if e.Param != "" {
		s += " (" + e.Param + ")"
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err is a *Error of the given Kind, so callers can
// write errors.Is(err, framework.ErrTimeout)-style checks by wrapping
// Kind as a target via framework.Of.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Of constructs a sentinel *Error of the given Kind for use with
// errors.Is(err, framework.Of(framework.ErrTimeout)).
func Of(k Kind) error { return &Error{Kind: k} }

// New constructs a module-scoped *Error.
func New(module string, kind Kind, param string, cause error) *Error {
	return &Error{Kind: kind, Module: module, Param: param, Cause: cause}
}
