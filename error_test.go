package postvault_test

import (
	"errors"
	"testing"

	"github.com/koomastudio/postvault"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := postvault.Errorf(postvault.ENOTFOUND, "post %q not found", "abc")

	assert.Equal(t, postvault.ENOTFOUND, postvault.ErrorCode(err))
	assert.Equal(t, "post \"abc\" not found", postvault.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, postvault.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, postvault.EINTERNAL, postvault.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", postvault.ErrorMessage(errors.New("boom")))
	assert.Empty(t, postvault.ErrorMessage(nil))
}
