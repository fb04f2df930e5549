package graph

import (
	"sort"
	"strings"

	"specmap/internal/model"
)

// findCycles runs a depth-first search with an explicit recursion stack
// and returns every distinct cycle as an ordered artifact-ID sequence.
// Cycles that are rotations of each other count once.
func findCycles(artifacts []model.CodeArtifact, relations []model.DependencyRelation) [][]string {
	adjacency := map[string][]string{}
	for _, r := range relations {
		adjacency[r.FromID] = append(adjacency[r.FromID], r.ToID)
	}
	for _, targets := range adjacency {
		sort.Strings(targets)
	}

	ids := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)

	var cycles [][]string
	seen := map[string]bool{}
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, next := range adjacency[id] {
			if onStack[next] {
				cycle := extractCycle(stack, next)
				if key := cycleKey(cycle); !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
				continue
			}
			if !visited[next] {
				visit(next)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
	}

	for _, id := range ids {
		if !visited[id] {
			visit(id)
		}
	}
	return cycles
}

// extractCycle copies the stack segment from the first occurrence of
// start through the top of the stack.
func extractCycle(stack []string, start string) []string {
	for i, id := range stack {
		if id == start {
			cycle := make([]string, len(stack)-i)
			copy(cycle, stack[i:])
			return cycle
		}
	}
	return nil
}

// cycleKey canonicalizes a cycle by rotating its smallest ID to the
// front, making rotations compare equal.
func cycleKey(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	min := 0
	for i, id := range cycle {
		if id < cycle[min] {
			min = i
		}
	}
	rotated := append(append([]string{}, cycle[min:]...), cycle[:min]...)
	return strings.Join(rotated, "\x00")
}
