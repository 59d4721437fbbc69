package taskgraph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTask indicates a requested target is not registered.
	ErrUnknownTask = errors.New("unknown task")
	// ErrDuplicateTask indicates a task name collision within the same graph.
	ErrDuplicateTask = errors.New("task already registered")
	// ErrEmptyTaskName indicates a task was registered without a name.
	ErrEmptyTaskName = errors.New("task name must not be empty")
	// ErrMissingDependency indicates a task references an unregistered dependency.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrCycle indicates the dependency graph contains a cycle.
	ErrCycle = errors.New("dependency cycle")
)

// UnknownTaskError is returned when the requested target is not registered.
type UnknownTaskError struct {
	Name  string
	Known []string
}

func (e *UnknownTaskError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("%s %q", ErrUnknownTask, e.Name)
	}
	return fmt.Sprintf("%s %q (available: %s)", ErrUnknownTask, e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownTaskError) Unwrap() error { return ErrUnknownTask }

// CycleError reports one dependency cycle found while resolving an order.
// Path starts and ends with the same task.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// TaskError wraps the failure of a single task with the task's name.
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }
