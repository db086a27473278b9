// Package config loads the flowc.yaml project file: where the flow lives,
// where generated units go, and how the host program is patched. The parsed
// document is validated against an embedded CUE schema before use.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/myu/flowc/internal/gen"
)

//go:embed schema.cue
var schemaCUE string

// DefaultFileName is the config file flowc looks for in the working
// directory.
const DefaultFileName = "flowc.yaml"

// Host configures the patcher. A nil Host skips patching entirely.
type Host struct {
	File     string  `yaml:"file" json:"file"`
	Receiver string  `yaml:"receiver,omitempty" json:"receiver,omitempty"`
	Markers  Markers `yaml:"markers,omitempty" json:"markers,omitempty"`
}

// Markers override the default insertion-point comments one by one.
type Markers struct {
	Imports string `yaml:"imports,omitempty" json:"imports,omitempty"`
	Fields  string `yaml:"fields,omitempty" json:"fields,omitempty"`
	Init    string `yaml:"init,omitempty" json:"init,omitempty"`
	Update  string `yaml:"update,omitempty" json:"update,omitempty"`
	Input   string `yaml:"input,omitempty" json:"input,omitempty"`
}

// Config is one project's settings.
type Config struct {
	Name      string `yaml:"name,omitempty" json:"name"`
	Flow      string `yaml:"flow" json:"flow"`
	OutputDir string `yaml:"output_dir,omitempty" json:"output_dir"`
	Package   string `yaml:"package,omitempty" json:"package"`
	Host      *Host  `yaml:"host,omitempty" json:"host,omitempty"`
}

// PatchOptions converts the host section into patcher options, filling in
// the default markers where the config is silent.
func (c *Config) PatchOptions() gen.PatchOptions {
	opts := gen.PatchOptions{Markers: gen.DefaultMarkers()}
	if c.Host == nil {
		return opts
	}
	opts.Receiver = c.Host.Receiver
	m := c.Host.Markers
	if m.Imports != "" {
		opts.Markers.Imports = m.Imports
	}
	if m.Fields != "" {
		opts.Markers.Fields = m.Fields
	}
	if m.Init != "" {
		opts.Markers.Init = m.Init
	}
	if m.Update != "" {
		opts.Markers.Update = m.Update
	}
	if m.Input != "" {
		opts.Markers.Input = m.Input
	}
	return opts
}

// Load reads, defaults, and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates config bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" && cfg.Flow != "" {
		base := filepath.Base(cfg.Flow)
		cfg.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "gen"
	}
	if cfg.Package == "" {
		cfg.Package = packageFromDir(cfg.OutputDir)
	}
}

// packageFromDir derives a plausible package name from the output
// directory, falling back to "main".
func packageFromDir(dir string) string {
	name := filepath.Base(filepath.Clean(dir))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'):
			b.WriteRune(r)
		case 'A' <= r && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	out := b.String()
	if out == "" || ('0' <= out[0] && out[0] <= '9') {
		return "main"
	}
	return out
}

// validate unifies the config with the embedded CUE schema.
func validate(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal: compiling config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("internal: config schema has no #Config: %w", err)
	}

	val := ctx.Encode(cfg)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encoding config for validation: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
