// Package optim tunes numeric configuration keys by exhaustive search.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoTrial is returned when every grid point failed.
var ErrNoTrial = errors.New("optim: no trial succeeded")

// Trial scores one point of the grid; higher is better.
type Trial func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	keys   []string
	ranges [][]float64
}

// NewGridSearch searches the cartesian product of grid, one axis per key.
// Axes are visited in key order.
func NewGridSearch(grid map[string][]float64) *GridSearch {
	g := &GridSearch{}
	for k := range grid {
		g.keys = append(g.keys, k)
	}
	sort.Strings(g.keys)
	for _, k := range g.keys {
		g.ranges = append(g.ranges, grid[k])
	}
	return g
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs trial on every grid point and returns the best one. Failed
// trials are skipped; cancellation stops the search.
func (g *GridSearch) Search(ctx context.Context, trial Trial) (map[string]float64, float64, error) {
	best := math.Inf(-1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, map[string]float64{}, trial, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("%d grid points: %w", g.Size(), ErrNoTrial)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	trial Trial,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.keys) {
		val, err := trial(ctx, current)
		if err != nil || math.IsNaN(val) {
			return nil
		}
		if val > *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	key := g.keys[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[key] = val

		if err := g.searchRecursive(ctx, depth+1, next, trial, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
