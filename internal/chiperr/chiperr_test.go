package chiperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatsWithAndWithoutCause(t *testing.T) {
	plain := New(InvalidMagic, "ym.Parse")
	assert.Equal(t, "ym.Parse: invalid magic", plain.Error())

	wrapped := Wrap(MalformedFile, "pt3.Parse: pattern table", errors.New("unexpected EOF"))
	assert.Equal(t, "pt3.Parse: pattern table: malformed file: unexpected EOF", wrapped.Error())
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	cause := New(MalformedFile, "pt3.Parse: sample bank")
	outer := Wrap(TooLarge, "pt3.Parse", cause)

	assert.True(t, Is(outer, TooLarge))
	assert.True(t, Is(outer, MalformedFile))
	assert.False(t, Is(outer, InvalidMagic))
}

func TestIsFalseForUnrelatedError(t *testing.T) {
	assert.False(t, Is(errors.New("plain error"), InvalidMagic))
	assert.False(t, Is(nil, InvalidMagic))
}

func TestUnwrapReturnsWrappedCause(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(MalformedFile, "ym.Parse: frame", cause)
	assert.Equal(t, cause, errors.Unwrap(e))
}
