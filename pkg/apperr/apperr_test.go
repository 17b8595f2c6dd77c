package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindPredicates(t *testing.T) {
	assert.True(t, IsValidation(Validationf("bad input %d", 1)))
	assert.True(t, IsNotFound(NotFoundf("missing")))
	assert.True(t, IsUpstream(Upstreamf(errors.New("timeout"), "llm call failed")))

	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsNotFound(Validationf("bad")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUpstream, "llm unavailable", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsUpstream(err))
	assert.Contains(t, err.Error(), "llm unavailable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := NotFoundf("conversation 7 not found")
	outer := fmt.Errorf("send failed: %w", inner)

	assert.True(t, IsNotFound(outer))
}
