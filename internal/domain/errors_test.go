package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorage_KeepsChainAndStack(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("insert invoice", cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage operation failed: insert invoice: connection reset", err.Error())

	stack, ok := StackTrace(err)
	assert.True(t, ok)
	assert.Contains(t, stack, "TestStorage_KeepsChainAndStack")

	_, ok = StackTrace(Validation("bad"))
	assert.False(t, ok)
	assert.NoError(t, Unexpected(nil))
}
