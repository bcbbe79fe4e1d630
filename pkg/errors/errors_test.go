package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrRecipeParse, "bad recipe")
	assert.Equal(t, ErrRecipeParse, err.Code)
	assert.Equal(t, "[RECIPE_PARSE] bad recipe", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrBadStatus, "HTTP %d", 404)
	assert.Equal(t, "[BAD_STATUS] HTTP 404", err.Error())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("disk full")
	err := Wrap(inner, ErrFileWrite, "failed to write file")

	assert.Equal(t, "[FILE_WRITE] failed to write file: disk full", err.Error())
	assert.Equal(t, inner, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, inner))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrInternal, "ignored %d", 1))
}

func TestIsErrorCode(t *testing.T) {
	err := New(ErrNoNetwork, "No Network")
	assert.True(t, IsErrorCode(err, ErrNoNetwork))
	assert.False(t, IsErrorCode(err, ErrFetchFailed))

	// Codes survive additional wrapping.
	wrapped := fmt.Errorf("context: %w", err)
	assert.True(t, IsErrorCode(wrapped, ErrNoNetwork))

	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrNoNetwork))
	assert.False(t, IsErrorCode(nil, ErrNoNetwork))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrMissingSource, GetErrorCode(New(ErrMissingSource, "gone")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestErrorIs(t *testing.T) {
	a := New(ErrConfigLoad, "first")
	b := New(ErrConfigLoad, "second")
	c := New(ErrConfigParse, "third")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrFetchFailed, "download failed").
		WithDetail("url", "https://example.com/f.zip").
		WithDetail("attempt", 2)

	assert.Equal(t, "https://example.com/f.zip", err.Details["url"])
	assert.Equal(t, 2, err.Details["attempt"])
}
