package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// NoManifestMessage is printed when no manifest is found.
const NoManifestMessage = "no tsluau.toml found\nplease run inside a project or pass the project directory, e.g.:\n  tsluau check path/to/project"

// Manifest is a loaded project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package         PackageConfig   `toml:"package" yaml:"package"`
	CompilerOptions CompilerOptions `toml:"compilerOptions" yaml:"compilerOptions"`
	Classify        ClassifyConfig  `toml:"classify" yaml:"classify"`
}

type PackageConfig struct {
	Name string `toml:"name" yaml:"name"`
}

// ClassifyConfig configures the classify pipeline. Relative paths are
// resolved against the manifest directory.
type ClassifyConfig struct {
	Snapshot    string `toml:"snapshot" yaml:"snapshot"`
	NodeModules string `toml:"nodeModules" yaml:"nodeModules"`
	Jobs        int    `toml:"jobs" yaml:"jobs"`
	Database    string `toml:"database" yaml:"database"`
}

// LoadManifest finds and decodes the manifest above startDir. ok is false
// when none exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes a manifest file, choosing the format by extension.
func LoadConfig(path string) (Config, error) {
	var (
		cfg Config
		err error
	)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		cfg, err = loadYAML(path)
	default:
		cfg, err = loadTOML(path)
	}
	if err != nil {
		return Config{}, err
	}
	if cfg.Classify.NodeModules == "" {
		cfg.Classify.NodeModules = "node_modules"
	}
	if cfg.Classify.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [classify].jobs must not be negative", path)
	}
	return cfg, nil
}

func loadTOML(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("compilerOptions") {
		return Config{}, fmt.Errorf("%s: missing [compilerOptions]", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

func loadYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	if _, ok := raw["package"]; !ok || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing package.name", path)
	}
	if _, ok := raw["compilerOptions"]; !ok {
		return Config{}, fmt.Errorf("%s: missing compilerOptions", path)
	}
	return cfg, nil
}

// Resolve anchors a manifest-relative path at the manifest directory.
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m == nil {
		return p
	}
	return filepath.Join(m.Root, p)
}

// Validate runs ValidateCompilerOptions with the manifest's own settings.
func (m *Manifest) Validate() error {
	opts := m.Config.CompilerOptions.Resolve(m.Root)
	err := ValidateCompilerOptions(opts, m.Resolve(m.Config.Classify.NodeModules))
	var perr *Error
	if errors.As(err, &perr) {
		perr.Manifest = filepath.Base(m.Path)
	}
	return err
}
