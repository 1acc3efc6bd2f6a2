package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	assert.Equal(t, 2, Next(1))
	assert.Equal(t, 999, Next(998))
	assert.Equal(t, 1, Next(999))
}

func TestInRange(t *testing.T) {
	assert.False(t, InRange(0))
	assert.True(t, InRange(1))
	assert.True(t, InRange(999))
	assert.False(t, InRange(1000))
}
