// Package story maps marker ids to the detail stories shown in the modal
// overlay. Stories are written in Markdown or HTML and always sanitized before
// they reach a page.
package story

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrEmptyID is returned when a story is registered without a marker id.
var ErrEmptyID = errors.New("story needs a marker id")

// Registry holds sanitized story blocks keyed by marker id.
type Registry struct {
	policy  *bluemonday.Policy
	md      goldmark.Markdown
	stories map[string]template.HTML
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		policy: Policy(),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// raw HTML is passed through so video embeds survive; the policy
			// decides what is kept
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		stories: make(map[string]template.HTML),
	}
}

var httpsURL = regexp.MustCompile(`^https://`)

// Policy is the sanitizer applied to every story: user-generated-content rules
// plus class attributes and https iframes for embedded video.
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowElements("iframe")
	p.AllowAttrs("src").Matching(httpsURL).OnElements("iframe")
	p.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "referrerpolicy", "width", "height").OnElements("iframe")
	return p
}

// SetHTML registers an HTML story for id.
func (r *Registry) SetHTML(id, raw string) error {
	if id == "" {
		return ErrEmptyID
	}
	r.stories[id] = template.HTML(r.policy.Sanitize(raw))
	return nil
}

// SetMarkdown converts src to HTML and registers it for id.
func (r *Registry) SetMarkdown(id, src string) error {
	if id == "" {
		return ErrEmptyID
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return fmt.Errorf("story %s: converting markdown: %w", id, err)
	}
	return r.SetHTML(id, buf.String())
}

// LoadFile registers the file at path for id. .md and .markdown files are
// treated as Markdown, anything else as HTML.
func (r *Registry) LoadFile(id, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading story file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return r.SetMarkdown(id, string(data))
	default:
		return r.SetHTML(id, string(data))
	}
}

// Get returns the story for id.
func (r *Registry) Get(id string) (template.HTML, bool) {
	s, ok := r.stories[id]
	return s, ok
}

// IDs lists the registered marker ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.stories))
	for id := range r.stories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of registered stories.
func (r *Registry) Len() int { return len(r.stories) }
