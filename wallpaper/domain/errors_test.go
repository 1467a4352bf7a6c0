package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := NewError(KindNetworkFailure, "fetching picture", errors.New("connection refused"))
	wrapped := fmt.Errorf("run failed: %w", err)

	assert.ErrorIs(t, wrapped, ErrNetworkFailure)
	assert.NotErrorIs(t, wrapped, ErrParseFailure)
	assert.Equal(t, KindNetworkFailure, KindOf(wrapped))
}

func TestError_Message(t *testing.T) {
	err := Errorf(KindParseFailure, "deriving image path", "url %q has no file name", "https://x/")
	assert.Equal(t, `deriving image path: url "https://x/" has no file name`, err.Error())

	assert.Equal(t, "DUPLICATE_PATH", ErrDuplicatePath.Error())
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewError(KindStoreUnavailable, "writing image", cause)
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindDuplicatePath, KindOf(ErrDuplicatePath))
}
