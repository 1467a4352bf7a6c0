package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can react without string matching.
type Kind string

const (
	KindUnknown          Kind = "UNKNOWN"
	KindInvalidArgument  Kind = "INVALID_ARGUMENT"
	KindNetworkFailure   Kind = "NETWORK_FAILURE"
	KindParseFailure     Kind = "PARSE_FAILURE"
	KindDuplicatePath    Kind = "DUPLICATE_PATH"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
	KindUnsupportedMedia Kind = "UNSUPPORTED_MEDIA"
	KindWallpaperFailure Kind = "WALLPAPER_FAILURE"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrNetworkFailure   = &Error{Kind: KindNetworkFailure}
	ErrParseFailure     = &Error{Kind: KindParseFailure}
	ErrDuplicatePath    = &Error{Kind: KindDuplicatePath}
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
	ErrUnsupportedMedia = &Error{Kind: KindUnsupportedMedia}
	ErrWallpaperFailure = &Error{Kind: KindWallpaperFailure}
)

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError wraps err with a kind and operation description.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
