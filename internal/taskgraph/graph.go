package taskgraph

import (
	"fmt"
	"slices"
)

// RunFunc is the body of a task. It receives the shared, read-only run context.
type RunFunc[C any] func(C) error

// Task is a registered unit of work. A nil Run is a no-op task that exists
// only to group its dependencies.
type Task[C any] struct {
	Name string
	Deps []string
	Run  RunFunc[C]
}

// Graph is a registry of tasks keyed by name, with dependency edges by name.
// A Graph is not safe for concurrent registration.
type Graph[C any] struct {
	tasks map[string]*Task[C]
	names []string // registration order
}

// New constructs an empty graph.
func New[C any]() *Graph[C] {
	return &Graph[C]{tasks: make(map[string]*Task[C])}
}

// Add registers a task under name. Dependencies are referenced by name and
// need not be registered yet; dangling references are rejected by Plan.
func (g *Graph[C]) Add(name string, run RunFunc[C], deps ...string) error {
	if name == "" {
		return ErrEmptyTaskName
	}
	if _, exists := g.tasks[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, name)
	}
	g.tasks[name] = &Task[C]{Name: name, Deps: slices.Clone(deps), Run: run}
	g.names = append(g.names, name)
	return nil
}

// Tasks returns copies of the registered tasks in registration order.
func (g *Graph[C]) Tasks() []Task[C] {
	out := make([]Task[C], 0, len(g.names))
	for _, name := range g.names {
		t := *g.tasks[name]
		t.Deps = slices.Clone(t.Deps)
		out = append(out, t)
	}
	return out
}

// Has reports whether a task named name is registered.
func (g *Graph[C]) Has(name string) bool {
	_, ok := g.tasks[name]
	return ok
}

// Plan resolves the execution order for target: every transitive dependency
// appears exactly once, strictly after all of its own dependencies, and the
// target comes last.
func (g *Graph[C]) Plan(target string) ([]string, error) {
	if _, ok := g.tasks[target]; !ok {
		return nil, &UnknownTaskError{Name: target, Known: slices.Clone(g.names)}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.tasks))
	order := make([]string, 0, len(g.tasks))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			// Back edge: the cycle is the stack suffix starting at name.
			start := slices.Index(stack, name)
			path := append(slices.Clone(stack[start:]), name)
			return &CycleError{Path: path}
		}

		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range g.tasks[name].Deps {
			if _, ok := g.tasks[dep]; !ok {
				return fmt.Errorf("%w: %s depends on %s", ErrMissingDependency, name, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate checks the whole graph for dangling dependencies and cycles, not
// only the part reachable from one target.
func (g *Graph[C]) Validate() error {
	for _, name := range g.names {
		if _, err := g.Plan(name); err != nil {
			return err
		}
	}
	return nil
}
