package domain

import "fmt"

// FaultKind categorizes a decode fault.
type FaultKind int

const (
	FaultCodec FaultKind = iota
	FaultBlockStructure
	FaultUnblock
)

// String returns a human-readable representation of the kind.
func (k FaultKind) String() string {
	switch k {
	case FaultBlockStructure:
		return "block structure"
	case FaultUnblock:
		return "unblock"
	default:
		return "codec"
	}
}

func (k FaultKind) sentinel() error {
	switch k {
	case FaultBlockStructure:
		return ErrBlockStructure
	case FaultUnblock:
		return ErrUnblock
	default:
		return ErrCodec
	}
}

// DecodeFault reports why a delimited frame could not be decoded into a CLTU.
// It matches ErrBlockStructure, ErrUnblock or ErrCodec with errors.Is.
type DecodeFault struct {
	Kind   FaultKind
	Detail string
	Err    error
}

// NewDecodeFault builds a fault of the given kind with a formatted detail.
func NewDecodeFault(kind FaultKind, format string, args ...any) *DecodeFault {
	return &DecodeFault{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (f *DecodeFault) Error() string {
	msg := f.Kind.sentinel().Error()
	if f.Detail != "" {
		msg += ": " + f.Detail
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Is reports whether target is the sentinel for this fault's kind.
func (f *DecodeFault) Is(target error) bool {
	return target == f.Kind.sentinel()
}

func (f *DecodeFault) Unwrap() error {
	return f.Err
}
