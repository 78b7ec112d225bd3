package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDFromString(t *testing.T) {
	a := UUIDFromString("feed:oracle:100")
	assert.Equal(t, a, UUIDFromString("feed:oracle:100"))
	assert.NotEqual(t, a, UUIDFromString("feed:oracle:101"))
	assert.True(t, IsUUID(a))
	assert.True(t, IsUUID(GenTraceID()))
	assert.False(t, IsUUID("nope"))
}
