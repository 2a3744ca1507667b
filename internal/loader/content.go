package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

// Document is one Markdown page in the content directory.
type Document struct {
	// ID is the site path of the page without extension: "/docs/ai/index".
	ID string
	// File is the slash-separated path relative to the content root.
	File        string
	Title       string
	Description string
	Frontmatter *Frontmatter
}

// PagePath returns the URL path the page is served at. Index pages are
// served at their directory: "/docs/ai/index" → "/docs/ai/".
func (d *Document) PagePath() string {
	if d.ID == "/index" {
		return "/"
	}
	if strings.HasSuffix(d.ID, "/index") {
		return strings.TrimSuffix(d.ID, "index")
	}
	return d.ID
}

// ContentIndex is an immutable snapshot of the documents in a content tree.
type ContentIndex struct {
	docs  map[string]*Document
	order []string
}

// Has reports whether a document with the given ID exists.
func (c *ContentIndex) Has(id string) bool {
	_, ok := c.docs[norm.NFC.String(id)]
	return ok
}

// Get returns the document with the given ID.
func (c *ContentIndex) Get(id string) (*Document, bool) {
	d, ok := c.docs[norm.NFC.String(id)]
	return d, ok
}

// Documents returns every document sorted by ID.
func (c *ContentIndex) Documents() []*Document {
	out := make([]*Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out
}

// Len returns the number of indexed documents.
func (c *ContentIndex) Len() int {
	return len(c.docs)
}

// NewContentIndex builds an index from already-loaded documents.
// Later documents with a duplicate ID replace earlier ones.
func NewContentIndex(docs ...*Document) *ContentIndex {
	idx := &ContentIndex{docs: make(map[string]*Document, len(docs))}
	for _, d := range docs {
		d.ID = norm.NFC.String(d.ID)
		idx.docs[d.ID] = d
	}
	for id := range idx.docs {
		idx.order = append(idx.order, id)
	}
	sort.Strings(idx.order)
	return idx
}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"public":       true,
}

// Scanner walks a content tree and parses every Markdown page.
type Scanner struct {
	strict  bool
	exclude []string
	logger  *slog.Logger
	md      goldmark.Markdown
}

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithStrictFrontmatter rejects unknown frontmatter keys.
func WithStrictFrontmatter(strict bool) ScanOption {
	return func(s *Scanner) { s.strict = strict }
}

// WithExclude skips files whose relative path matches any of the path.Match patterns.
func WithExclude(patterns ...string) ScanOption {
	return func(s *Scanner) { s.exclude = append(s.exclude, patterns...) }
}

// NewScanner creates a content scanner. A nil logger discards output.
func NewScanner(logger *slog.Logger, opts ...ScanOption) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scanner{logger: logger, md: goldmark.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanContent indexes the Markdown documents under dir with default options.
func ScanContent(dir string) (*ContentIndex, error) {
	return NewScanner(nil).ScanDir(dir)
}

// ScanDir indexes the Markdown documents under dir.
func (s *Scanner) ScanDir(dir string) (*ContentIndex, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan content directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to scan content directory %s: not a directory", dir)
	}
	return s.Scan(os.DirFS(dir))
}

// Scan indexes the Markdown documents in fsys with a single walk.
func (s *Scanner) Scan(fsys fs.FS) (*ContentIndex, error) {
	var docs []*Document
	var errs []error

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && (strings.HasPrefix(d.Name(), ".") || skippedDirs[d.Name()]) {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(p) != ".md" || s.excluded(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		doc, err := s.parse(p, data)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk content: %w", err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	idx := NewContentIndex(docs...)
	s.logger.Debug("content indexed", slog.Int("documents", idx.Len()))
	return idx, nil
}

func (s *Scanner) excluded(p string) bool {
	for _, pattern := range s.exclude {
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) parse(file string, data []byte) (*Document, error) {
	fm, err := ExtractFrontmatter(string(data), s.strict)
	if err != nil {
		var parseErr *FrontmatterParseError
		var unknownErr *UnknownFieldError
		switch {
		case errors.As(err, &parseErr):
			parseErr.File = file
		case errors.As(err, &unknownErr):
			unknownErr.File = file
		}
		return nil, err
	}

	doc := &Document{
		ID:          DocumentID(file),
		File:        file,
		Title:       fm.Config.Title,
		Description: fm.Config.Description,
		Frontmatter: fm.Config,
	}
	if doc.Title == "" {
		doc.Title = s.firstHeading([]byte(fm.Body))
	}
	return doc, nil
}

// firstHeading returns the text of the first level-one heading in body.
func (s *Scanner) firstHeading(body []byte) string {
	root := s.md.Parser().Parse(text.NewReader(body))

	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = inlineText(h, body)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// DocumentID converts a content-relative file path into a document ID.
// "docs/ai/index.md" → "/docs/ai/index".
func DocumentID(file string) string {
	id := "/" + strings.TrimPrefix(path.Clean(file), "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	return norm.NFC.String(id)
}
