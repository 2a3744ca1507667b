// Package docs assembles the configuration object a static documentation
// site engine consumes: site metadata, the navbar, the path-keyed sidebars
// and the search widget settings. It also drives the full build pipeline
// and the watch loop that rebuilds it when sources change.
package docs

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/sitenav/internal/registry"
	"github.com/leapstack-labs/sitenav/internal/validate"
	"github.com/leapstack-labs/sitenav/pkg/nav"
	"gopkg.in/yaml.v3"
)

// Meta is the site-wide metadata.
type Meta struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Base        string `json:"base,omitempty" yaml:"base,omitempty"`
	Lang        string `json:"lang,omitempty" yaml:"lang,omitempty"`
}

// Search is the search widget configuration. Options are emitted unchanged.
type Search struct {
	Provider string         `json:"provider" yaml:"provider"`
	Options  map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// ThemeConfig is the navigation half of the site configuration.
type ThemeConfig struct {
	Nav     nav.List            `json:"nav" yaml:"nav"`
	Sidebar map[string]nav.List `json:"sidebar" yaml:"sidebar"`
	Search  *Search             `json:"search,omitempty" yaml:"search,omitempty"`
}

// SiteConfig is the single configuration object handed to the site engine.
type SiteConfig struct {
	Meta        `yaml:",inline"`
	ThemeConfig ThemeConfig `json:"themeConfig" yaml:"themeConfig"`
}

// Input gathers everything Assemble needs.
type Input struct {
	Meta    Meta
	Navbar  nav.List
	Sidebar *registry.SidebarRegistry
	Search  *Search

	// Validation is the outcome of the validator run over the same navbar
	// and sidebars. A failed report stops assembly; nil means unchecked.
	Validation *validate.Report
}

// Assemble combines the validated pieces into a SiteConfig. It does no
// validation of its own and performs no I/O.
func Assemble(in Input) (*SiteConfig, error) {
	if err := in.Validation.Err(); err != nil {
		return nil, err
	}

	sidebar := map[string]nav.List{}
	if in.Sidebar != nil {
		sidebar = in.Sidebar.Entries()
	}
	navbar := in.Navbar
	if navbar == nil {
		navbar = nav.List{}
	}

	return &SiteConfig{
		Meta: in.Meta,
		ThemeConfig: ThemeConfig{
			Nav:     navbar,
			Sidebar: sidebar,
			Search:  in.Search,
		},
	}, nil
}

// Decode parses an emitted site configuration. Every navigation record is
// classified again, so malformed input fails with nav.MalformedNodeError.
func Decode(data []byte, format Format) (*SiteConfig, error) {
	if format == FormatYAML {
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse site config: %w", err)
		}
		converted, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert site config: %w", err)
		}
		data = converted
	}

	var cfg SiteConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode site config: %w", err)
	}
	if cfg.ThemeConfig.Nav == nil {
		cfg.ThemeConfig.Nav = nav.List{}
	}
	if cfg.ThemeConfig.Sidebar == nil {
		cfg.ThemeConfig.Sidebar = map[string]nav.List{}
	}
	return &cfg, nil
}

// Registry rebuilds a sidebar registry from the emitted sidebars.
func (c *SiteConfig) Registry(opts ...registry.Option) (*registry.SidebarRegistry, error) {
	reg := registry.NewSidebarRegistry(opts...)
	for prefix, tree := range c.ThemeConfig.Sidebar {
		if err := reg.Register(prefix, tree); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Navbar returns the emitted navbar.
func (c *SiteConfig) Navbar() nav.List {
	return c.ThemeConfig.Nav
}
