package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := Conflict("two renames on node 4")

	require.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrConstraint)
	assert.Equal(t, "two renames on node 4", err.Error())
}

func TestError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("apply bucket 12: %w", Constraint("target removed"))

	require.ErrorIs(t, err, ErrConstraint)

	var typed *Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, ErrKindConstraint, typed.Kind)
}

func TestError_UnwrapCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Format("decode batch", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Equal(t, "decode batch: unexpected EOF", err.Error())
}

func TestError_NilReceiver(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
}

func TestErrKind_String(t *testing.T) {
	assert.Equal(t, "conflict", ErrKindConflict.String())
	assert.Equal(t, "constraint", ErrKindConstraint.String())
	assert.Equal(t, "unknown", ErrKind(99).String())
}

func TestNodeKind_RoundTrip(t *testing.T) {
	for k := NodeDocument; k <= NodePI; k++ {
		got, err := ParseNodeKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseNodeKind("cdata")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestNodeKind_NameAndValue(t *testing.T) {
	assert.True(t, NodeElement.HasName())
	assert.False(t, NodeElement.HasValue())
	assert.True(t, NodeAttribute.HasName())
	assert.True(t, NodeAttribute.HasValue())
	assert.False(t, NodeText.HasName())
	assert.True(t, NodePI.HasValue())
	assert.False(t, NodeDocument.HasValue())
}
