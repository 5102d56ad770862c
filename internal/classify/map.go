package classify

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"loom/internal/services"
	"loom/internal/textutil"
)

// Category is a content category posts are classified into. Its keywords are
// what priority keyword sets intersect against.
type Category struct {
	Name     string
	Keywords []string
}

// Map classifies posts into content categories through two lookup tables: one
// keyed by remote post id, one keyed by content fingerprint. The fingerprint
// table covers posts whose remote id is unknown ahead of planning.
type Map struct {
	byID          map[string]Category
	byFingerprint map[string]Category
}

// New returns an empty classification map.
func New() *Map {
	return &Map{
		byID:          make(map[string]Category),
		byFingerprint: make(map[string]Category),
	}
}

// AddByID registers a category for a remote post id.
func (m *Map) AddByID(id string, category Category) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	m.byID[id] = category
}

// AddByContent registers a category under the content's fingerprint.
func (m *Map) AddByContent(content string, category Category) {
	fingerprint := textutil.Normalize(content)
	if fingerprint == "" {
		return
	}
	m.byFingerprint[fingerprint] = category
}

// Lookup classifies a post: remote id first, content fingerprint second.
// A post matching neither table is unclassified.
func (m *Map) Lookup(id, content string) (Category, bool) {
	if m == nil {
		return Category{}, false
	}
	if id != "" {
		if category, ok := m.byID[id]; ok {
			return category, true
		}
	}
	if fingerprint := textutil.Normalize(content); fingerprint != "" {
		if category, ok := m.byFingerprint[fingerprint]; ok {
			return category, true
		}
	}
	return Category{}, false
}

// Size returns the number of registered entries across both tables.
func (m *Map) Size() int {
	if m == nil {
		return 0
	}
	return len(m.byID) + len(m.byFingerprint)
}

type document struct {
	Categories map[string]categoryDocument `toml:"categories"`
	Posts      map[string]string           `toml:"posts"`
	Content    map[string]string           `toml:"content"`
}

type categoryDocument struct {
	Keywords []string `toml:"keywords"`
}

// LoadFile reads a classification document: named categories with keyword
// lists, plus post-id and content assignments referencing them.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "classify", "load", "read classification file", err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "classify", "load", "parse classification file", err)
	}

	categories := make(map[string]Category, len(doc.Categories))
	for rawName, entry := range doc.Categories {
		name := strings.ToLower(strings.TrimSpace(rawName))
		if name == "" {
			continue
		}
		category := Category{Name: name}
		for _, keyword := range entry.Keywords {
			if keyword = strings.TrimSpace(keyword); keyword != "" {
				category.Keywords = append(category.Keywords, keyword)
			}
		}
		categories[name] = category
	}

	resolve := func(table, key, rawName string) (Category, error) {
		name := strings.ToLower(strings.TrimSpace(rawName))
		category, ok := categories[name]
		if !ok {
			return Category{}, services.Wrap(services.ErrConfiguration, "classify", "load",
				fmt.Sprintf("%s %q references undeclared category %q", table, key, rawName), nil)
		}
		return category, nil
	}

	out := New()
	for id, rawName := range doc.Posts {
		category, err := resolve("post", id, rawName)
		if err != nil {
			return nil, err
		}
		out.AddByID(id, category)
	}
	for content, rawName := range doc.Content {
		category, err := resolve("content", content, rawName)
		if err != nil {
			return nil, err
		}
		out.AddByContent(content, category)
	}
	return out, nil
}
