package docs

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/leapstack-labs/sitenav/internal/config"
	"github.com/leapstack-labs/sitenav/internal/loader"
	"github.com/leapstack-labs/sitenav/internal/registry"
	"github.com/leapstack-labs/sitenav/internal/validate"
)

// Generator runs the build pipeline: load declarations, scan content,
// validate, assemble and emit.
type Generator struct {
	cfg     *config.ProjectConfig
	root    string
	version string
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used during builds.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithVersion stamps emitted manifests with the tool version.
func WithVersion(version string) Option {
	return func(g *Generator) { g.version = version }
}

// WithRoot sets the directory relative paths in cfg are resolved against.
func WithRoot(root string) Option {
	return func(g *Generator) { g.root = root }
}

// NewGenerator creates a generator for a project.
func NewGenerator(cfg *config.ProjectConfig, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result holds everything produced by one pipeline run.
type Result struct {
	Site     *SiteConfig
	Report   *validate.Report
	Registry *registry.SidebarRegistry
	Index    *loader.ContentIndex
	Manifest *Manifest

	ConfigPath   string
	ManifestPath string
}

// Load runs the pipeline without writing anything. When validation fails the
// returned Result still carries the Report alongside the error.
func (g *Generator) Load() (*Result, error) {
	navPath := g.path(g.cfg.NavFile)
	decls, err := config.LoadDeclarations(navPath)
	if err != nil {
		return nil, err
	}

	reg, err := decls.Registry(registry.WithResolveCache(g.cfg.Build.CacheSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", navPath, err)
	}

	scanner := loader.NewScanner(g.logger,
		loader.WithStrictFrontmatter(g.cfg.Content.StrictFrontmatter),
		loader.WithExclude(g.cfg.Content.Exclude...),
	)
	idx, err := scanner.ScanDir(g.path(g.cfg.Content.Dir))
	if err != nil {
		return nil, err
	}

	validator, err := validate.New(validate.Config{
		Base:     g.cfg.Site.Base,
		Disabled: g.cfg.Lint.Disabled,
		Severity: g.cfg.Lint.Severity,
		Orphans:  g.cfg.Lint.Orphans,
	}, g.logger)
	if err != nil {
		return nil, err
	}

	report := validator.Check(decls.Navbar, reg, idx)
	result := &Result{Report: report, Registry: reg, Index: idx}

	site, err := Assemble(Input{
		Meta:       g.meta(),
		Navbar:     decls.Navbar,
		Sidebar:    reg,
		Search:     g.search(),
		Validation: report,
	})
	if err != nil {
		return result, err
	}
	result.Site = site

	g.logger.Debug("site assembled",
		slog.Int("sidebars", reg.Count()),
		slog.Int("documents", idx.Len()),
		slog.Int("diagnostics", len(report.Diagnostics)))

	return result, nil
}

// Build runs the pipeline and writes the site config and manifest to the
// output directory.
func (g *Generator) Build() (*Result, error) {
	result, err := g.Load()
	if err != nil {
		return result, err
	}

	format, err := ParseFormat(g.cfg.Build.Format)
	if err != nil {
		return result, err
	}

	outDir := g.path(g.cfg.Build.OutDir)
	result.ConfigPath = filepath.Join(outDir, "config"+format.Ext())
	result.ManifestPath = filepath.Join(outDir, "manifest"+format.Ext())

	if err := WriteFile(result.ConfigPath, result.Site, format); err != nil {
		return result, fmt.Errorf("failed to write site config: %w", err)
	}

	manifest := GenerateManifest(result.Site, result.Report, result.Index.Len())
	manifest.Version = g.version
	manifest.ConfigFile = filepath.Base(result.ConfigPath)
	if err := WriteFile(result.ManifestPath, manifest, format); err != nil {
		return result, fmt.Errorf("failed to write manifest: %w", err)
	}
	result.Manifest = manifest

	g.logger.Info("site config written",
		slog.String("path", result.ConfigPath),
		slog.String("build_id", manifest.BuildID))

	return result, nil
}

// withConfig returns a copy of g that builds with cfg.
func (g *Generator) withConfig(cfg *config.ProjectConfig) *Generator {
	c := *g
	c.cfg = cfg
	return &c
}

// NavPath returns the resolved navigation file path.
func (g *Generator) NavPath() string { return g.path(g.cfg.NavFile) }

// ContentDir returns the resolved content directory.
func (g *Generator) ContentDir() string { return g.path(g.cfg.Content.Dir) }

// OutDir returns the resolved output directory.
func (g *Generator) OutDir() string { return g.path(g.cfg.Build.OutDir) }

func (g *Generator) path(p string) string {
	if p == "" || filepath.IsAbs(p) || g.root == "" {
		return p
	}
	return filepath.Join(g.root, p)
}

func (g *Generator) meta() Meta {
	return Meta{
		Title:       g.cfg.Site.Title,
		Description: g.cfg.Site.Description,
		Base:        g.cfg.Site.Base,
		Lang:        g.cfg.Site.Lang,
	}
}

func (g *Generator) search() *Search {
	if g.cfg.Search == nil || g.cfg.Search.Provider == "" {
		return nil
	}
	return &Search{Provider: g.cfg.Search.Provider, Options: g.cfg.Search.Options}
}
