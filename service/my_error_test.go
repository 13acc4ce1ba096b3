package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMyError(t *testing.T) {
	inner := errors.New("underlying")
	e := NewMyError(ErrBadFormat, "invalid endpoint", inner)
	require.NotNil(t, e)
	assert.Equal(t, ErrBadFormat, e.Code)
	assert.Equal(t, "invalid endpoint", e.Message)
	assert.Same(t, inner, e.Inner)
	assert.Equal(t, "bad_format invalid endpoint: underlying", e.Error())
}

func TestMyError_ErrorWithoutInner(t *testing.T) {
	e := NewDependencyNotFoundError("no cassandra", nil)
	assert.Equal(t, "dependency_not_found no cassandra", e.Error())
}

func TestNewRegistryUnavailableError_KeepsInnerMyError(t *testing.T) {
	inner := NewTimeoutError("registry wait", context.DeadlineExceeded)
	e := NewRegistryUnavailableError("get failed", inner)
	assert.Same(t, inner, e)
	assert.True(t, IsTimeoutError(e))
}

func TestNewInternalServerError(t *testing.T) {
	e := NewInternalServerError("connect failed", nil)
	require.NotNil(t, e)
	assert.Equal(t, ErrInternalServerError, e.Code)
	assert.True(t, IsInternalServerError(e))
}

func TestToMyError_WithWrappedMyError(t *testing.T) {
	e := NewFormatError("bad", nil)
	wrapped := fmt.Errorf("resolve storage: %w", e)
	got := ToMyError(wrapped)
	require.NotNil(t, got)
	assert.Same(t, e, got)
	assert.True(t, IsFormatError(wrapped))
}

func TestToMyError_WithOrdinaryError(t *testing.T) {
	assert.Nil(t, ToMyError(errors.New("plain")))
	assert.False(t, IsDependencyNotFoundError(errors.New("plain")))
}

func TestTimeoutError_UnwrapsContextError(t *testing.T) {
	e := NewTimeoutError("gave up", context.Canceled)
	assert.ErrorIs(t, e, context.Canceled)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsEntityNotFoundError(NewEntityNotFoundError("gone", nil)))
	assert.True(t, IsBadParameterError(NewBadParameterError("bad", nil)))
	assert.True(t, IsRegistryUnavailableError(NewRegistryUnavailableError("down", nil)))
	assert.True(t, IsDependencyNotFoundError(NewDependencyNotFoundError("missing", nil)))
	assert.False(t, IsTimeoutError(NewFormatError("bad", nil)))
}
