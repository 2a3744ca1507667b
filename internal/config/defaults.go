package config

import "time"

// Default configuration values.
const (
	DefaultNavFile    = "nav.yaml"
	DefaultContentDir = "."
	DefaultOutDir     = ".sitenav"
	DefaultFormat     = "json"
	DefaultBase       = "/"
	DefaultLang       = "en-US"
	DefaultCacheSize  = 256
	DefaultDebounce   = 100 * time.Millisecond
)

// Defaults returns the default values as a flat key map, in the form
// expected by the confmap provider.
func Defaults() map[string]any {
	return map[string]any{
		"nav_file":         DefaultNavFile,
		"site.base":        DefaultBase,
		"site.lang":        DefaultLang,
		"content.dir":      DefaultContentDir,
		"build.out_dir":    DefaultOutDir,
		"build.format":     DefaultFormat,
		"build.cache_size": DefaultCacheSize,
		"watch.debounce":   DefaultDebounce.String(),
	}
}

// ApplyDefaults fills in any unset values.
func (c *ProjectConfig) ApplyDefaults() {
	if c.NavFile == "" {
		c.NavFile = DefaultNavFile
	}
	if c.Site.Base == "" {
		c.Site.Base = DefaultBase
	}
	if c.Site.Lang == "" {
		c.Site.Lang = DefaultLang
	}
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}
	if c.Build.OutDir == "" {
		c.Build.OutDir = DefaultOutDir
	}
	if c.Build.Format == "" {
		c.Build.Format = DefaultFormat
	}
	if c.Build.CacheSize == 0 {
		c.Build.CacheSize = DefaultCacheSize
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}
