package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkip(t *testing.T) {
	assert.Equal(t, int64(0), Skip(0, 12))
	assert.Equal(t, int64(0), Skip(1, 12))
	assert.Equal(t, int64(24), Skip(3, 12))
	assert.Equal(t, int64(0), Skip(5, 0))

	assert.Equal(t, int64(math.MaxInt64), Skip(1537228672809129302, 12))
	assert.Equal(t, int64(math.MaxInt64), Skip(math.MaxInt, 20))
}

func TestNewPage(t *testing.T) {
	p := NewPage[string](nil, 2, 12, 25)
	assert.Equal(t, []string{}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
}
