package composer

import (
	"fmt"
	"sort"
)

// dependencyClosure flattens the workflow into node ID -> dependency
// IDs, including nested sub-workflow internals and the structural
// finalization-after-main edges.
func (w *Workflow) dependencyClosure() map[string][]string {
	closure := make(map[string][]string)

	var mainIDs []string
	for _, n := range w.Main.nodes {
		closure[n.ID] = w.DependenciesOf(n)
		mainIDs = append(mainIDs, n.ID)
	}
	for _, n := range w.Finalization.nodes {
		deps := w.DependenciesOf(n)
		deps = append(deps, mainIDs...)
		closure[n.ID] = dedupe(deps)
	}
	for _, sub := range w.subs {
		for _, n := range sub.Graph.nodes {
			closure[n.ID] = w.DependenciesOf(n)
		}
	}
	return closure
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Verify proves the assembled workflow is a DAG: cycle detection by
// DFS, then a full topological ordering as a cross-check.
func (w *Workflow) Verify() error {
	closure := w.dependencyClosure()

	if err := detectCycles(closure); err != nil {
		return err
	}
	if _, err := topologicalSort(closure); err != nil {
		return err
	}
	return nil
}

// TopologicalOrder returns a deterministic execution ordering of all
// node IDs.
func (w *Workflow) TopologicalOrder() ([]string, error) {
	return topologicalSort(w.dependencyClosure())
}

// detectCycles performs DFS cycle detection over the dependency map.
func detectCycles(closure map[string][]string) error {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	ids := make([]string, 0, len(closure))
	for id := range closure {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var dfs func(string) bool
	dfs = func(node string) bool {
		visited[node] = true
		recStack[node] = true
		for _, dep := range closure[node] {
			if !visited[dep] {
				if dfs(dep) {
					return true
				}
			} else if recStack[dep] {
				return true
			}
		}
		recStack[node] = false
		return false
	}

	for _, id := range ids {
		if !visited[id] {
			if dfs(id) {
				return fmt.Errorf("cycle detected in job dependencies")
			}
		}
	}
	return nil
}

// topologicalSort runs Kahn's algorithm with a sorted ready queue so
// the ordering is stable across runs.
func topologicalSort(closure map[string][]string) ([]string, error) {
	dependents := make(map[string][]string)
	inDegree := make(map[string]int)

	for id := range closure {
		inDegree[id] = 0
	}
	for id, deps := range closure {
		for _, dep := range deps {
			if _, known := inDegree[dep]; !known {
				continue
			}
			dependents[dep] = append(dependents[dep], id)
			inDegree[id]++
		}
	}

	var queue []string
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	sorted := make([]string, 0, len(closure))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		next := dependents[current]
		sort.Strings(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
		sort.Strings(queue)
	}

	if len(sorted) != len(closure) {
		return nil, fmt.Errorf("failed to topologically sort: possible cycle detected")
	}
	return sorted, nil
}
