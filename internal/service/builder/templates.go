package builder

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"pageforge/internal/domain/models/builder"
)

//go:embed templates/*.yaml
var templateFiles embed.FS

// StarterTemplate is a ready-made composition shipped with the binary.
// Elements are stored as raw YAML-shaped maps and only decoded into
// typed blocks when a composition is built from the template.
type StarterTemplate struct {
	Key             string                   `yaml:"-"`
	Name            string                   `yaml:"name"`
	Description     string                   `yaml:"description"`
	Title           string                   `yaml:"title"`
	PrimaryColor    string                   `yaml:"primaryColor"`
	BackgroundColor string                   `yaml:"backgroundColor"`
	Elements        []map[string]interface{} `yaml:"elements"`
}

// StarterRegistry holds the embedded starter templates.
type StarterRegistry struct {
	templates map[string]*StarterTemplate
	mu        sync.RWMutex
}

// NewStarterRegistry loads the embedded starter template YAML files
func NewStarterRegistry() (*StarterRegistry, error) {
	r := &StarterRegistry{
		templates: make(map[string]*StarterTemplate),
	}

	entries, err := fs.Glob(templateFiles, "templates/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}
	for _, entry := range entries {
		if err := r.loadTemplateFile(entry); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// loadTemplateFile loads one starter template YAML file
func (r *StarterRegistry) loadTemplateFile(filename string) error {
	data, err := templateFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var tmpl StarterTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	key := strings.TrimSuffix(strings.TrimPrefix(filename, "templates/"), ".yaml")
	tmpl.Key = key

	r.mu.Lock()
	r.templates[key] = &tmpl
	r.mu.Unlock()

	return nil
}

// List returns every starter template, ordered by key.
func (r *StarterRegistry) List() []StarterTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]StarterTemplate, 0, len(r.templates))
	for _, tmpl := range r.templates {
		out = append(out, *tmpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Get returns one starter template by key.
func (r *StarterRegistry) Get(key string) (*StarterTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[key]
	return tmpl, ok
}

// Compose builds a fresh composition from a starter template. Blocks
// come back typed and reindexed, settings carry the template's colors
// on top of the stock defaults.
func (t *StarterTemplate) Compose() (string, []builder.Block, builder.PageSettings, error) {
	settings := builder.DefaultSettings()
	settings.Title = t.Title
	if t.PrimaryColor != "" {
		settings.PrimaryColor = t.PrimaryColor
	}
	if t.BackgroundColor != "" {
		settings.BackgroundColor = t.BackgroundColor
	}

	// YAML maps round-trip through JSON so blocks land in the typed
	// content decode path.
	raw, err := json.Marshal(t.Elements)
	if err != nil {
		return "", nil, settings, fmt.Errorf("encode template %s: %w", t.Key, err)
	}
	var blocks []builder.Block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", nil, settings, fmt.Errorf("decode template %s: %w", t.Key, err)
	}
	for i := range blocks {
		if blocks[i].ID == "" {
			blocks[i].ID = uuid.NewString()
		}
		blocks[i].Order = i
	}

	return t.Title, blocks, settings, nil
}
