package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "user:profile:42", GenerateKey(EntityUser, KeyProfile, uint(42)))
}

func TestParseKey(t *testing.T) {
	entity, keyType, value, ok := ParseKey(GenerateKey(EntityUser, KeyProfile, "a:b"))
	assert.True(t, ok)
	assert.Equal(t, EntityUser, entity)
	assert.Equal(t, KeyProfile, keyType)
	assert.Equal(t, "a:b", value)

	_, _, _, ok = ParseKey("user:profile")
	assert.False(t, ok)
}
