// Package config loads project-specific settings from .rustdiag.yaml.
// This lets a workspace pin its theme, matcher, and custom pattern sets
// without command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gentoo90/rust-analyzer/pkg/matcher"
)

// FileName is the per-project config file looked up in the workspace root.
const FileName = ".rustdiag.yaml"

// Project represents project-specific rustdiag configuration.
type Project struct {
	Theme       string `yaml:"theme"`        // "default", "orca", "mono"
	Root        string `yaml:"root"`         // workspace root for relative paths
	Matcher     string `yaml:"matcher"`      // default matcher name
	BaselineDir string `yaml:"baseline_dir"` // snapshot storage (default ".rustdiag")

	// Matchers declares additional pattern sets beyond the built-ins.
	Matchers []MatcherDef `yaml:"matchers"`
}

// MatcherDef is the declarative form of a custom two-stage matcher.
// Begins/Ends are optional and must be set together.
type MatcherDef struct {
	Name     string `yaml:"name"`
	Header   string `yaml:"header"`
	Location string `yaml:"location"`
	Begins   string `yaml:"begins,omitempty"`
	Ends     string `yaml:"ends,omitempty"`
}

// Default returns the configuration used when no .rustdiag.yaml exists.
func Default() *Project {
	return &Project{
		Theme:       "default",
		Root:        "",
		Matcher:     matcher.Rustc.Name,
		BaselineDir: ".rustdiag",
	}
}

// Load reads .rustdiag.yaml from dir. A missing file yields defaults;
// a malformed file is an error.
func Load(dir string) (*Project, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.anchor(dir)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	cfg.fillDefaults()
	cfg.anchor(dir)
	return cfg, nil
}

// anchor resolves the baseline dir against the workspace so snapshots
// land next to the project regardless of the process cwd.
func (p *Project) anchor(dir string) {
	if !filepath.IsAbs(p.BaselineDir) {
		p.BaselineDir = filepath.Join(dir, p.BaselineDir)
	}
}

func (p *Project) fillDefaults() {
	if p.Theme == "" {
		p.Theme = "default"
	}
	if p.Matcher == "" {
		p.Matcher = matcher.Rustc.Name
	}
	if p.BaselineDir == "" {
		p.BaselineDir = ".rustdiag"
	}
}

// ResolveMatcher returns the def with the given name, preferring custom
// matchers from the config over built-ins.
func (p *Project) ResolveMatcher(name string) (matcher.Def, error) {
	for _, md := range p.Matchers {
		if md.Name == name {
			return matcher.Compile(md.Name, md.Header, md.Location, md.Begins, md.Ends)
		}
	}
	if def, ok := matcher.Lookup(name); ok {
		return def, nil
	}
	return matcher.Def{}, fmt.Errorf("unknown matcher %q", name)
}
