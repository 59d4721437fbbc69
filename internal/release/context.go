package release

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dkoosis/modrelease/internal/config"
	"github.com/dkoosis/modrelease/internal/modinfo"
)

// Module is one independently versioned sub-project. SourceKey names its
// directories; PackageID and Version come from its descriptor and only name
// release output.
type Module struct {
	SourceKey string
	PackageID string
	Version   string
}

// ArchiveName is the file name of the module's release archive.
func (m Module) ArchiveName(ext string) string {
	return fmt.Sprintf("%s_%s.%s", m.PackageID, m.Version, ext)
}

// BuildContext is the shared state of one pipeline run. It is built once,
// before any task runs, and tasks must treat it as read-only.
type BuildContext struct {
	Configuration  string
	SkipValidation bool
	Modules        []Module
	Layout         config.Layout
	Log            *slog.Logger
}

// NewBuildContext loads every configured module's descriptor, in
// configuration order, and returns the context for a run. The first
// descriptor that cannot be loaded fails with a *modinfo.MetadataError.
func NewBuildContext(s *config.Settings, log *slog.Logger) (*BuildContext, error) {
	if log == nil {
		log = slog.Default()
	}

	modules, err := LoadModules(s.Layout, s.Modules)
	if err != nil {
		return nil, err
	}
	for _, m := range modules {
		log.Debug("loaded module metadata", "module", m.SourceKey, "modid", m.PackageID, "version", m.Version)
	}

	return &BuildContext{
		Configuration:  s.Configuration,
		SkipValidation: s.SkipValidation,
		Modules:        modules,
		Layout:         s.Layout,
		Log:            log,
	}, nil
}

// LoadModules reads the descriptor of each key. The result has one Module
// per key, in the same order. Package IDs must be unique, ignoring case,
// because each names a staging directory and an archive.
func LoadModules(layout config.Layout, keys []string) ([]Module, error) {
	modules := make([]Module, 0, len(keys))
	owner := make(map[string]string, len(keys))
	for _, key := range keys {
		path := layout.DescriptorPath(key)
		info, err := modinfo.Load(key, path)
		if err != nil {
			return nil, err
		}

		id := strings.ToLower(info.ModID)
		if prev, ok := owner[id]; ok {
			return nil, &modinfo.MetadataError{
				Module: key,
				Path:   path,
				Err:    fmt.Errorf("%w %q: already declared by module %s", modinfo.ErrDuplicateID, info.ModID, prev),
			}
		}
		owner[id] = key

		modules = append(modules, Module{SourceKey: key, PackageID: info.ModID, Version: info.Version})
	}
	return modules, nil
}
