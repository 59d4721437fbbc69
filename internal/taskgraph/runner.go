package taskgraph

import (
	"time"
)

// Status is the outcome of a task within a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Event describes task progress to hook callbacks.
type Event struct {
	Task     string
	Index    int // 1-based position in the execution order
	Total    int
	Duration time.Duration
	Err      error
}

// Hooks aggregates optional lifecycle callbacks.
type Hooks struct {
	OnStart  func(Event)
	OnFinish func(Event)
}

// Result records what happened to one planned task.
type Result struct {
	Task     string
	Status   Status
	Duration time.Duration
	Err      error
}

// Report summarises a run. Tasks that were planned but never started because
// an earlier task failed are listed with StatusSkipped.
type Report struct {
	Target  string
	Results []Result
}

// Executed returns the names of the tasks whose body ran, in order.
func (r *Report) Executed() []string {
	var names []string
	for _, res := range r.Results {
		if res.Status != StatusSkipped {
			names = append(names, res.Task)
		}
	}
	return names
}

// Failed reports whether any task in the run failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// RunOption configures a single run.
type RunOption func(*runConfig)

type runConfig struct {
	hooks Hooks
	now   func() time.Time
}

// WithHooks attaches lifecycle callbacks to the run.
func WithHooks(h Hooks) RunOption {
	return func(cfg *runConfig) {
		cfg.hooks = h
	}
}

// Run resolves the order for target and executes it sequentially, passing ctx
// to every task. The first failing task stops the run; its error is returned
// wrapped in a *TaskError. Resolution errors (unknown target, missing
// dependency, cycle) are returned before any task executes. Tasks are never
// retried.
func (g *Graph[C]) Run(target string, ctx C, opts ...RunOption) (*Report, error) {
	cfg := runConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	order, err := g.Plan(target)
	if err != nil {
		return nil, err
	}

	report := &Report{Target: target, Results: make([]Result, 0, len(order))}
	completed := make(map[string]bool, len(order))

	for i, name := range order {
		if completed[name] {
			continue
		}
		task := g.tasks[name]
		event := Event{Task: name, Index: i + 1, Total: len(order)}
		if cfg.hooks.OnStart != nil {
			cfg.hooks.OnStart(event)
		}

		start := cfg.now()
		var runErr error
		if task.Run != nil {
			runErr = task.Run(ctx)
		}
		event.Duration = cfg.now().Sub(start)
		event.Err = runErr
		completed[name] = true

		if cfg.hooks.OnFinish != nil {
			cfg.hooks.OnFinish(event)
		}

		if runErr != nil {
			report.Results = append(report.Results, Result{Task: name, Status: StatusFailed, Duration: event.Duration, Err: runErr})
			for _, rest := range order[i+1:] {
				report.Results = append(report.Results, Result{Task: rest, Status: StatusSkipped})
			}
			return report, &TaskError{Task: name, Err: runErr}
		}
		report.Results = append(report.Results, Result{Task: name, Status: StatusSucceeded, Duration: event.Duration})
	}

	return report, nil
}
