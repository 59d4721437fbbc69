package release

// Toolchain is the external compiler/publisher. Implementations block until
// the underlying process exits.
type Toolchain interface {
	Clean(project, configuration string) error
	Publish(project, configuration string) error
}

// build cleans then publishes each module in order. The first failing
// invocation aborts the remaining modules.
func (p *Pipeline) build(bc *BuildContext) error {
	for _, m := range bc.Modules {
		project := bc.Layout.ProjectFile(m.SourceKey)
		p.out.Module(m.SourceKey, bc.Configuration)
		bc.Log.Debug("building module", "module", m.SourceKey, "project", project, "configuration", bc.Configuration)

		if err := p.toolchain.Clean(project, bc.Configuration); err != nil {
			return &BuildError{Module: m.SourceKey, Phase: PhaseClean, Err: err}
		}
		if err := p.toolchain.Publish(project, bc.Configuration); err != nil {
			return &BuildError{Module: m.SourceKey, Phase: PhasePublish, Err: err}
		}
	}
	return nil
}
