package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelRingEvictsOldestFirst(t *testing.T) {
	r := newLevelRing(3)
	r.push(0.1)
	r.push(0.2)
	r.push(0.3)
	r.push(0.4)

	assert.Equal(t, []float64{0.2, 0.3, 0.4}, r.values())
	assert.Equal(t, 3, r.len())
}

func TestLevelRingBelowCapacityKeepsAll(t *testing.T) {
	r := newLevelRing(5)
	r.push(0.5)
	r.push(0.6)

	assert.Equal(t, []float64{0.5, 0.6}, r.values())
}

func TestSeededRingIsFullOfLowAmplitudeSamples(t *testing.T) {
	r := seededLevelRing()

	assert.Equal(t, levelCapacity, r.len())
	for _, v := range r.values() {
		assert.GreaterOrEqual(t, v, 0.1)
		assert.LessOrEqual(t, v, 0.3)
	}
}
