// Package loader scans a documentation content directory into an immutable
// index of Markdown documents, reading each page's YAML frontmatter and title.
package loader

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the page-level settings a documentation page may declare.
// Keys the site engine understands but the index does not use are kept in Extra.
type Frontmatter struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Layout      string         `yaml:"layout"`
	Navbar      *bool          `yaml:"navbar"`
	Sidebar     *bool          `yaml:"sidebar"`
	Extra       map[string]any `yaml:"-"`
}

// FrontmatterResult holds the result of frontmatter extraction.
type FrontmatterResult struct {
	Config  *Frontmatter
	Body    string // Markdown content after frontmatter
	HasYAML bool   // Whether frontmatter was found
}

// frontmatterPattern matches a leading --- ... --- block.
var frontmatterPattern = regexp.MustCompile(`(?s)^\x{feff}?---[ \t]*\r?\n(?:(.*?)\r?\n)?---[ \t]*(?:\r?\n|$)`)

var knownFields = map[string]bool{
	"title":       true,
	"description": true,
	"layout":      true,
	"navbar":      true,
	"sidebar":     true,
}

// engineFields are keys the site engine reads directly. They are never
// reported as unknown, even in strict mode.
var engineFields = map[string]bool{
	"titleTemplate": true,
	"head":          true,
	"hero":          true,
	"features":      true,
	"aside":         true,
	"outline":       true,
	"lastUpdated":   true,
	"editLink":      true,
	"footer":        true,
	"pageClass":     true,
	"prev":          true,
	"next":          true,
	"search":        true,
}

// ExtractFrontmatter splits Markdown content into frontmatter and body.
// In strict mode any key outside the known and engine-owned sets is an UnknownFieldError.
func ExtractFrontmatter(content string, strict bool) (*FrontmatterResult, error) {
	result := &FrontmatterResult{
		Config: &Frontmatter{},
		Body:   content,
	}

	loc := frontmatterPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return result, nil
	}

	result.HasYAML = true
	result.Body = content[loc[1]:]

	var yamlContent string
	if loc[2] >= 0 {
		yamlContent = content[loc[2]:loc[3]]
	}
	if strings.TrimSpace(yamlContent) == "" {
		return result, nil
	}

	config, err := parseFrontmatterYAML(yamlContent, strict)
	if err != nil {
		return nil, err
	}
	result.Config = config
	return result, nil
}

func parseFrontmatterYAML(yamlContent string, strict bool) (*Frontmatter, error) {
	var rawMap map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &rawMap); err != nil {
		return nil, &FrontmatterParseError{
			Message: fmt.Sprintf("invalid YAML: %v", err),
		}
	}

	var config Frontmatter
	if err := yaml.Unmarshal([]byte(yamlContent), &config); err != nil {
		return nil, &FrontmatterParseError{
			Message: fmt.Sprintf("failed to parse frontmatter: %v", err),
		}
	}

	for field, value := range rawMap {
		if knownFields[field] {
			continue
		}
		if strict && !engineFields[field] {
			return nil, &UnknownFieldError{Field: field}
		}
		if config.Extra == nil {
			config.Extra = make(map[string]any)
		}
		config.Extra[field] = value
	}

	return &config, nil
}

// IsHome reports whether the page uses the engine's home layout.
func (f *Frontmatter) IsHome() bool {
	return f != nil && f.Layout == "home"
}

// FrontmatterParseError represents a frontmatter parsing error.
type FrontmatterParseError struct {
	File    string
	Message string
}

func (e *FrontmatterParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// UnknownFieldError represents an unrecognised frontmatter key in strict mode.
type UnknownFieldError struct {
	File  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field %q in frontmatter", e.Field)
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}
