// Package release implements the mod release pipeline: asset validation,
// toolchain builds, and packaging of each module into a versioned archive.
package release

import (
	"fmt"

	"github.com/dkoosis/modrelease/internal/console"
	"github.com/dkoosis/modrelease/internal/taskgraph"
)

// Task names.
const (
	TaskValidateJSON = "ValidateJson"
	TaskBuild        = "Build"
	TaskPackage      = "Package"
	TaskDefault      = "Default"
)

// DefaultTarget is run when no target is named.
const DefaultTarget = TaskDefault

// Pipeline owns the task registry and the collaborators the tasks use.
type Pipeline struct {
	toolchain Toolchain
	out       *console.Printer
	graph     *taskgraph.Graph[*BuildContext]
}

// NewPipeline registers the release tasks.
func NewPipeline(tc Toolchain, out *console.Printer) (*Pipeline, error) {
	p := &Pipeline{
		toolchain: tc,
		out:       out,
		graph:     taskgraph.New[*BuildContext](),
	}

	tasks := []struct {
		name string
		run  taskgraph.RunFunc[*BuildContext]
		deps []string
	}{
		{TaskValidateJSON, p.validateJSON, nil},
		{TaskBuild, p.build, []string{TaskValidateJSON}},
		{TaskPackage, p.pack, []string{TaskBuild}},
		{TaskDefault, nil, []string{TaskPackage}},
	}
	for _, t := range tasks {
		if err := p.graph.Add(t.name, t.run, t.deps...); err != nil {
			return nil, fmt.Errorf("register %s: %w", t.name, err)
		}
	}
	if err := p.graph.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Tasks lists the registered tasks in registration order.
func (p *Pipeline) Tasks() []taskgraph.Task[*BuildContext] {
	return p.graph.Tasks()
}

// Plan returns the execution order for target without running anything.
func (p *Pipeline) Plan(target string) ([]string, error) {
	return p.graph.Plan(target)
}

// Run executes target and everything it depends on, announcing each task on
// the printer.
func (p *Pipeline) Run(target string, bc *BuildContext) (*taskgraph.Report, error) {
	bc.Log.Debug("running target", "target", target, "configuration", bc.Configuration, "modules", len(bc.Modules))
	return p.graph.Run(target, bc, taskgraph.WithHooks(p.out.Hooks()))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
