package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRuns(t *testing.T) {
	defer func(old int) { runs = old }(runs)

	for _, n := range []int{0, -1} {
		runs = n
		assert.Error(t, checkRuns(), "runs %d", n)
	}
	runs = 3
	assert.NoError(t, checkRuns())
}

func TestParseGrid(t *testing.T) {
	grid, err := parseGrid([]string{"kdalpha=0.01, 0.02", "q_epsilon=0.1"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]float64{"kdalpha": {0.01, 0.02}, "q_epsilon": {0.1}}, grid)

	_, err = parseGrid([]string{"kdalpha"})
	assert.Error(t, err)
	_, err = parseGrid([]string{"kdalpha=x"})
	assert.Error(t, err)
}
