package release

import (
	"github.com/dkoosis/modrelease/internal/assets"
)

// validateJSON parses every asset document of every module and stops at the
// first one that does not parse. SkipValidation short-circuits the whole step.
func (p *Pipeline) validateJSON(bc *BuildContext) error {
	if bc.SkipValidation {
		p.out.Warning("JSON validation skipped")
		return nil
	}

	for _, m := range bc.Modules {
		dir := bc.Layout.AssetDir(m.SourceKey)
		docs, err := assets.Documents(dir)
		if err != nil {
			return &ValidationError{Path: dir, Message: err.Error()}
		}
		p.out.Module(m.SourceKey, pluralize(len(docs), "document"))

		for _, path := range docs {
			if err := assets.ParseFile(path); err != nil {
				bc.Log.Debug("asset document rejected", "module", m.SourceKey, "path", path, "err", err)
				return &ValidationError{Path: path, Message: err.Error()}
			}
		}
	}
	return nil
}
