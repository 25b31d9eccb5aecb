package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("alice_99"))
	assert.NoError(t, ValidateUsername("007bond"))

	assert.Error(t, ValidateUsername("ab"), "too short")
	assert.Error(t, ValidateUsername("averyveryverylongusername"), "too long")
	assert.Error(t, ValidateUsername("bad name"), "contains space")
	assert.Error(t, ValidateUsername("bad-name"), "contains hyphen")
	assert.Error(t, ValidateUsername("_leading"), "starts with underscore")
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice "))
	assert.Equal(t, "bob_99", NormalizeUsername("BOB_99"))
}
