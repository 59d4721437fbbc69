package release

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/modrelease/internal/config"
	"github.com/dkoosis/modrelease/internal/console"
	"github.com/dkoosis/modrelease/internal/modinfo"
	"github.com/dkoosis/modrelease/internal/taskgraph"
)

type fixtureModule struct {
	key     string
	modID   string
	version string
	assets  map[string]string
}

func validModule(key, modID, version string) fixtureModule {
	return fixtureModule{
		key:     key,
		modID:   modID,
		version: version,
		assets: map[string]string{
			"blocktypes/altar.json": `{"code":"altar","variants":[1,2,3]}`,
			"lang/en.json":          `{"` + key + `:title":"` + key + `"}`,
		},
	}
}

// writeWorkspace lays out module source trees under a temp root.
func writeWorkspace(t *testing.T, modules ...fixtureModule) config.Layout {
	t.Helper()
	root := t.TempDir()
	for _, m := range modules {
		dir := filepath.Join(root, m.key, m.key)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		descriptor := fmt.Sprintf(`{"type":"code","modid":%q,"version":%q}`, m.modID, m.version)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "modinfo.json"), []byte(descriptor), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, m.key+".csproj"), []byte("<Project/>"), 0o644))
		for rel, content := range m.assets {
			path := filepath.Join(dir, "assets", filepath.FromSlash(rel))
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		}
	}
	return config.Layout{
		Root:        root,
		BinDir:      "bin",
		StagingDir:  "ZipStaging",
		ReleasesDir: "Releases",
		ArchiveExt:  "zip",
	}
}

// fakeToolchain records invocations and publishes a small file tree where
// the real toolchain would.
type fakeToolchain struct {
	layout config.Layout
	calls  []string
	fail   map[string]string // module key -> phase that fails
}

func (f *fakeToolchain) Clean(project, configuration string) error {
	return f.record(PhaseClean, project, configuration)
}

func (f *fakeToolchain) Publish(project, configuration string) error {
	if err := f.record(PhasePublish, project, configuration); err != nil {
		return err
	}
	key := strings.TrimSuffix(filepath.Base(project), ".csproj")
	dir := f.layout.PublishDir(configuration, key)
	if err := os.MkdirAll(filepath.Join(dir, "lib"), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, key+".dll"), []byte("assembly "+key), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "lib", "deps.json"), []byte(`{}`), 0o644)
}

func (f *fakeToolchain) record(phase, project, configuration string) error {
	key := strings.TrimSuffix(filepath.Base(project), ".csproj")
	f.calls = append(f.calls, phase+" "+key+" "+configuration)
	if f.fail[key] == phase {
		return fmt.Errorf("%s exited with code 1", phase)
	}
	return nil
}

func modulesOf(fixtures []fixtureModule) []string {
	keys := make([]string, 0, len(fixtures))
	for _, m := range fixtures {
		keys = append(keys, m.key)
	}
	return keys
}

type harness struct {
	layout    config.Layout
	toolchain *fakeToolchain
	pipeline  *Pipeline
	out       *bytes.Buffer
	settings  *config.Settings
}

func newHarness(t *testing.T, skip bool, fixtures ...fixtureModule) *harness {
	t.Helper()
	layout := writeWorkspace(t, fixtures...)
	tc := &fakeToolchain{layout: layout}
	var out bytes.Buffer
	p, err := NewPipeline(tc, console.New(&out, true))
	require.NoError(t, err)
	return &harness{
		layout:    layout,
		toolchain: tc,
		pipeline:  p,
		out:       &out,
		settings: &config.Settings{
			Modules:        modulesOf(fixtures),
			Configuration:  "Release",
			SkipValidation: skip,
			Layout:         layout,
		},
	}
}

func (h *harness) run(t *testing.T, target string) (*taskgraph.Report, error) {
	t.Helper()
	bc, err := NewBuildContext(h.settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return h.pipeline.Run(target, bc)
}

func (h *harness) archives(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(h.layout.ReleasesPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func zipEntries(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestNewPipeline_RegistersTasks(t *testing.T) {
	p, err := NewPipeline(&fakeToolchain{}, console.New(io.Discard, true))
	require.NoError(t, err)

	var names []string
	for _, task := range p.Tasks() {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{TaskValidateJSON, TaskBuild, TaskPackage, TaskDefault}, names)

	order, err := p.Plan(DefaultTarget)
	require.NoError(t, err)
	assert.Equal(t, []string{TaskValidateJSON, TaskBuild, TaskPackage, TaskDefault}, order)
}

func TestNewBuildContext_LoadsModulesInOrder(t *testing.T) {
	layout := writeWorkspace(t,
		validModule("shackles", "shackles", "0.9.1"),
		validModule("sanctuaries", "sanctuaries-mod", "1.2.0"),
	)
	bc, err := NewBuildContext(&config.Settings{
		Modules:       []string{"shackles", "sanctuaries"},
		Configuration: "Debug",
		Layout:        layout,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []Module{
		{SourceKey: "shackles", PackageID: "shackles", Version: "0.9.1"},
		{SourceKey: "sanctuaries", PackageID: "sanctuaries-mod", Version: "1.2.0"},
	}, bc.Modules)
	assert.Equal(t, "Debug", bc.Configuration)
	assert.NotNil(t, bc.Log)
}

func TestNewBuildContext_MissingDescriptor(t *testing.T) {
	layout := writeWorkspace(t, validModule("sanctuaries", "sanctuaries", "1.2.0"))
	_, err := NewBuildContext(&config.Settings{
		Modules:       []string{"sanctuaries", "snitches"},
		Configuration: "Release",
		Layout:        layout,
	}, nil)

	require.ErrorIs(t, err, modinfo.ErrMetadata)
	var metaErr *modinfo.MetadataError
	require.ErrorAs(t, err, &metaErr)
	assert.Equal(t, "snitches", metaErr.Module)
}

func TestNewBuildContext_RejectsDuplicatePackageID(t *testing.T) {
	layout := writeWorkspace(t,
		validModule("sanctuaries", "sanctuaries", "1.2.0"),
		validModule("shackles", "Sanctuaries", "0.9.1"),
	)
	_, err := NewBuildContext(&config.Settings{
		Modules:       []string{"sanctuaries", "shackles"},
		Configuration: "Release",
		Layout:        layout,
	}, nil)

	require.ErrorIs(t, err, modinfo.ErrDuplicateID)
	require.ErrorIs(t, err, modinfo.ErrMetadata)
	var metaErr *modinfo.MetadataError
	require.ErrorAs(t, err, &metaErr)
	assert.Equal(t, "shackles", metaErr.Module)
	assert.Contains(t, err.Error(), "sanctuaries")
	assert.NoDirExists(t, layout.BinPath())
}

func TestRun_FullRunProducesVersionedArchives(t *testing.T) {
	h := newHarness(t, false,
		validModule("sanctuaries", "sanctuaries", "1.2.0"),
		validModule("shackles", "shackles", "0.9.1"),
	)

	report, err := h.run(t, DefaultTarget)
	require.NoError(t, err)
	assert.Equal(t, []string{TaskValidateJSON, TaskBuild, TaskPackage, TaskDefault}, report.Executed())

	assert.ElementsMatch(t, []string{"sanctuaries_1.2.0.zip", "shackles_0.9.1.zip"}, h.archives(t))

	entries := zipEntries(t, filepath.Join(h.layout.ReleasesPath(), "sanctuaries_1.2.0.zip"))
	assert.True(t, sort.StringsAreSorted(entries), "entries must be in lexical order: %v", entries)
	assert.Equal(t, []string{
		"assets/",
		"assets/blocktypes/",
		"assets/blocktypes/altar.json",
		"assets/lang/",
		"assets/lang/en.json",
		"lib/",
		"lib/deps.json",
		"modinfo.json",
		"sanctuaries.dll",
	}, entries)

	assert.Equal(t, []string{
		"clean sanctuaries Release",
		"publish sanctuaries Release",
		"clean shackles Release",
		"publish shackles Release",
	}, h.toolchain.calls)

	assert.NoDirExists(t, h.layout.StagingPath())
	assert.NoDirExists(t, h.layout.OutputDir("Release"))
}

func TestRun_DescriptorIsCopiedVerbatim(t *testing.T) {
	h := newHarness(t, false, validModule("snitches", "snitches", "2.0.0"))
	_, err := h.run(t, TaskPackage)
	require.NoError(t, err)

	want, err := os.ReadFile(h.layout.DescriptorPath("snitches"))
	require.NoError(t, err)

	r, err := zip.OpenReader(filepath.Join(h.layout.ReleasesPath(), "snitches_2.0.0.zip"))
	require.NoError(t, err)
	defer r.Close()
	for _, f := range r.File {
		if f.Name != "modinfo.json" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, want, got)
		return
	}
	t.Fatal("modinfo.json missing from archive")
}

func TestRun_PackagingIsIdempotent(t *testing.T) {
	h := newHarness(t, false,
		validModule("sanctuaries", "sanctuaries", "1.2.0"),
		validModule("shackles", "shackles", "0.9.1"),
	)

	read := func() map[string][]byte {
		out := map[string][]byte{}
		for _, name := range h.archives(t) {
			data, err := os.ReadFile(filepath.Join(h.layout.ReleasesPath(), name))
			require.NoError(t, err)
			out[name] = data
		}
		return out
	}

	_, err := h.run(t, TaskPackage)
	require.NoError(t, err)
	first := read()

	_, err = h.run(t, TaskPackage)
	require.NoError(t, err)
	second := read()

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.NoDirExists(t, h.layout.StagingPath())
}

func TestRun_SkipValidationIgnoresMalformedDocuments(t *testing.T) {
	broken := validModule("sanctuaries", "sanctuaries", "1.2.0")
	broken.assets["blocktypes/broken.json"] = `{"code": "altar",`

	t.Run("skipped", func(t *testing.T) {
		h := newHarness(t, true, broken)
		report, err := h.run(t, DefaultTarget)
		require.NoError(t, err)
		assert.False(t, report.Failed())
		assert.Equal(t, []string{"sanctuaries_1.2.0.zip"}, h.archives(t))
		assert.Contains(t, h.out.String(), "JSON validation skipped")
	})

	t.Run("validated", func(t *testing.T) {
		h := newHarness(t, false, broken)
		report, err := h.run(t, DefaultTarget)
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, []string{TaskValidateJSON}, report.Executed())
		assert.Empty(t, h.toolchain.calls)
		assert.Empty(t, h.archives(t))
	})
}

func TestRun_ValidationStopsAtFirstMalformedModule(t *testing.T) {
	a := validModule("sanctuaries", "sanctuaries", "1.2.0")
	a.assets["lang/fr.json"] = `{"title": }`
	b := validModule("shackles", "shackles", "0.9.1")
	h := newHarness(t, false, a, b)

	report, err := h.run(t, DefaultTarget)

	var taskErr *taskgraph.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, TaskValidateJSON, taskErr.Task)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, filepath.Join(h.layout.AssetDir("sanctuaries"), "lang", "fr.json"), valErr.Path)
	assert.Contains(t, valErr.Error(), "fr.json")
	assert.NotContains(t, h.out.String(), "Shackles", "second module must not be checked")

	assert.Empty(t, h.toolchain.calls)
	assert.Equal(t, []taskgraph.Result{
		{Task: TaskBuild, Status: taskgraph.StatusSkipped},
		{Task: TaskPackage, Status: taskgraph.StatusSkipped},
		{Task: TaskDefault, Status: taskgraph.StatusSkipped},
	}, report.Results[1:])
}

func TestRun_MissingAssetDirectoryHasNothingToValidate(t *testing.T) {
	m := validModule("snitches", "snitches", "2.0.0")
	m.assets = nil
	h := newHarness(t, false, m)

	_, err := h.run(t, TaskValidateJSON)
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "0 documents")
}

func TestRun_UnknownTaskRunsNothing(t *testing.T) {
	h := newHarness(t, false, validModule("sanctuaries", "sanctuaries", "1.2.0"))

	report, err := h.run(t, "Deploy")
	require.ErrorIs(t, err, taskgraph.ErrUnknownTask)
	var unknown *taskgraph.UnknownTaskError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Deploy", unknown.Name)
	assert.Nil(t, report)
	assert.Empty(t, h.toolchain.calls)
	assert.Empty(t, h.out.String())
}

func TestRun_BuildFailureOnSecondModuleProducesNoArchives(t *testing.T) {
	h := newHarness(t, false,
		validModule("sanctuaries", "sanctuaries", "1.2.0"),
		validModule("shackles", "shackles", "0.9.1"),
		validModule("snitches", "snitches", "2.0.0"),
	)
	h.toolchain.fail = map[string]string{"shackles": PhasePublish}

	report, err := h.run(t, DefaultTarget)
	require.ErrorIs(t, err, ErrBuild)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "shackles", buildErr.Module)
	assert.Equal(t, PhasePublish, buildErr.Phase)

	assert.Equal(t, []string{
		"clean sanctuaries Release",
		"publish sanctuaries Release",
		"clean shackles Release",
		"publish shackles Release",
	}, h.toolchain.calls)
	assert.Equal(t, []string{TaskValidateJSON, TaskBuild}, report.Executed())
	assert.Empty(t, h.archives(t))
}

func TestRun_CleanFailureReportsPhase(t *testing.T) {
	h := newHarness(t, false, validModule("sanctuaries", "sanctuaries", "1.2.0"))
	h.toolchain.fail = map[string]string{"sanctuaries": PhaseClean}

	_, err := h.run(t, TaskBuild)
	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, PhaseClean, buildErr.Phase)
	assert.Equal(t, []string{"clean sanctuaries Release"}, h.toolchain.calls)
}

func TestRun_PackageFailsWithoutPublishedOutput(t *testing.T) {
	h := newHarness(t, false, validModule("sanctuaries", "sanctuaries", "1.2.0"))
	bc, err := NewBuildContext(h.settings, nil)
	require.NoError(t, err)

	// Package alone still runs its dependencies, so call the task body
	// directly to simulate a toolchain that published nothing.
	err = h.pipeline.pack(bc)
	require.ErrorIs(t, err, ErrPackage)
	var pkgErr *PackageError
	require.ErrorAs(t, err, &pkgErr)
	assert.Equal(t, "sanctuaries", pkgErr.Module)
	assert.Equal(t, OpStage, pkgErr.Op)
	assert.Equal(t, h.layout.PublishDir("Release", "sanctuaries"), pkgErr.Path)
	assert.Empty(t, h.archives(t))
}

func TestRun_PackageReplacesStaleReleases(t *testing.T) {
	h := newHarness(t, false, validModule("sanctuaries", "sanctuaries", "1.2.0"))
	require.NoError(t, os.MkdirAll(h.layout.ReleasesPath(), 0o755))
	stale := filepath.Join(h.layout.ReleasesPath(), "sanctuaries_1.1.0.zip")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := h.run(t, TaskPackage)
	require.NoError(t, err)
	assert.Equal(t, []string{"sanctuaries_1.2.0.zip"}, h.archives(t))
}

func TestModule_ArchiveName(t *testing.T) {
	m := Module{SourceKey: "shackles", PackageID: "shackles", Version: "0.9.1"}
	assert.Equal(t, "shackles_0.9.1.zip", m.ArchiveName("zip"))
}
