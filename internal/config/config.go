// Package config loads effectful.yaml: the marker and entry point names,
// extra capability instances, type hierarchy and unapply shapes, and
// prelude signatures for user-defined effects.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"martianoff/effectful/internal/transpiler/infer"
	"martianoff/effectful/internal/transpiler/registry"
	"martianoff/effectful/internal/transpiler/transformer"
)

// FileName is the configuration file looked up by FindConfig.
const FileName = "effectful.yaml"

// EnvVar overrides the configuration file location.
const EnvVar = "EFFECTFUL_CONFIG"

// Config represents the top-level effectful.yaml configuration.
type Config struct {
	// Markers names the marker operation and the postfix adapter.
	Markers Markers `yaml:"markers"`

	// EntryPoints names the calls that start a rewrite.
	EntryPoints EntryPoints `yaml:"entry_points"`

	// NamePrefix is the reserved prefix of generated names.
	// Defaults to "eff$".
	NamePrefix string `yaml:"name_prefix,omitempty"`

	// Instances are added to the std capability instances.
	Instances []InstanceSpec `yaml:"instances,omitempty"`

	// Types declares direct supertypes, most specific first:
	//
	//   types:
	//     NonEmptyList: [List]
	Types map[string][]string `yaml:"types,omitempty"`

	// Unapply declares which type parameter carries the value for the
	// indirect strategy. Undeclared constructors use their last parameter.
	Unapply map[string]int `yaml:"unapply,omitempty"`

	// Signatures adds names to the type checker's prelude:
	//
	//   signatures:
	//     BoxMonad: "Monad[Box[_]]"
	//     Box: "(a) => Box[a]"
	Signatures map[string]string `yaml:"signatures,omitempty"`

	// Log configures the driver's logger.
	Log Log `yaml:"log"`
}

// Markers names the syntactic markers.
type Markers struct {
	// Unwrap is the marker function: unwrap(m).
	Unwrap string `yaml:"unwrap"`
	// Adapter is the conversion used by the postfix form m!.
	Adapter string `yaml:"adapter"`
}

// EntryPoints names the direct and indirect rewrite entry points.
type EntryPoints struct {
	Direct   string `yaml:"direct"`
	Indirect string `yaml:"indirect"`
}

// InstanceSpec declares one capability instance.
type InstanceSpec struct {
	// Capability is "Monad" or "Traversable".
	Capability string `yaml:"capability"`
	// Type is the type constructor name: "Box".
	Type string `yaml:"type"`
	// Expr is the expression naming the instance: "BoxMonad".
	Expr string `yaml:"expr"`
}

// Log configures logging.
type Log struct {
	// Level is a zap level name. Defaults to "info".
	Level string `yaml:"level,omitempty"`
	// Development selects zap's human-readable development encoder.
	Development bool `yaml:"development,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Markers:     Markers{Unwrap: "unwrap", Adapter: "unwrapOps"},
		EntryPoints: EntryPoints{Direct: "effectfully", Indirect: "effectfullyUnapply"},
		NamePrefix:  "eff$",
		Log:         Log{Level: "info"},
	}
}

// LoadConfig reads and parses a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses configuration content on top of the defaults.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load returns the configuration in effect for dir: the file named by
// EFFECTFUL_CONFIG if set, otherwise the nearest effectful.yaml at or above
// dir, otherwise the defaults.
func Load(dir string) (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return LoadConfig(path)
	}
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// FindConfig searches for effectful.yaml starting from dir and walking up
// to parent directories. Returns an empty path if none is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Markers.Unwrap == "" || c.Markers.Adapter == "" {
		return fmt.Errorf("%s: markers.unwrap and markers.adapter must not be empty", path)
	}
	if c.EntryPoints.Direct == "" || c.EntryPoints.Indirect == "" {
		return fmt.Errorf("%s: entry_points.direct and entry_points.indirect must not be empty", path)
	}
	if c.EntryPoints.Direct == c.EntryPoints.Indirect {
		return fmt.Errorf("%s: entry points must differ", path)
	}
	if c.NamePrefix == "" {
		return fmt.Errorf("%s: name_prefix must not be empty", path)
	}
	for i, inst := range c.Instances {
		switch registry.Capability(inst.Capability) {
		case registry.Monad, registry.Traversable:
		default:
			return fmt.Errorf("%s: instances[%d]: unknown capability %q", path, i, inst.Capability)
		}
		if inst.Type == "" || inst.Expr == "" {
			return fmt.Errorf("%s: instances[%d]: type and expr are required", path, i)
		}
	}
	for name, idx := range c.Unapply {
		if idx < 0 {
			return fmt.Errorf("%s: unapply.%s: index must not be negative", path, name)
		}
	}
	if c.Log.Level != "" {
		if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%s: log.level: %w", path, err)
		}
	}
	for name, sig := range c.Signatures {
		if _, err := infer.ParseScheme(sig); err != nil {
			return fmt.Errorf("%s: signatures.%s: %w", path, name, err)
		}
	}
	return nil
}

// Registry returns the std registry extended with the configured
// instances, types and unapply shapes.
func (c *Config) Registry() (*registry.Registry, error) {
	r := registry.DefaultRegistry()
	for _, inst := range c.Instances {
		err := r.Register(registry.Instance{
			Capability: registry.Capability(inst.Capability),
			TypeName:   inst.Type,
			Expr:       inst.Expr,
		})
		if err != nil {
			return nil, err
		}
	}
	for name, supers := range c.Types {
		r.DeclareType(name, supers...)
	}
	for name, idx := range c.Unapply {
		r.DeclareUnapply(name, idx)
	}
	return r, nil
}

// Checker returns a lenient type checker over the prelude, the configured
// signatures and the type hierarchy of r.
func (c *Config) Checker(r *registry.Registry) (*infer.Checker, error) {
	checker := infer.NewChecker()
	for name, sig := range c.Signatures {
		if err := checker.Env.Declare(name, sig); err != nil {
			return nil, err
		}
	}
	checker.Supertypes = r.Supertypes()
	checker.EntryPoints = map[string]bool{c.EntryPoints.Direct: true, c.EntryPoints.Indirect: true}
	if c.Markers.Unwrap != "unwrap" {
		checker.Env[c.Markers.Unwrap] = checker.Env["unwrap"]
	}
	if c.Markers.Adapter != "unwrapOps" {
		checker.Env[c.Markers.Adapter] = checker.Env["unwrapOps"]
	}
	if c.EntryPoints.Direct != "effectfully" {
		checker.Env[c.EntryPoints.Direct] = checker.Env["effectfully"]
	}
	if c.EntryPoints.Indirect != "effectfullyUnapply" {
		checker.Env[c.EntryPoints.Indirect] = checker.Env["effectfullyUnapply"]
	}
	return checker, nil
}

// Options returns the rewrite options for the configured names over r.
func (c *Config) Options(r *registry.Registry, log *zap.Logger) transformer.Options {
	return transformer.Options{
		Unwrap:     c.Markers.Unwrap,
		Adapter:    c.Markers.Adapter,
		Direct:     c.EntryPoints.Direct,
		Indirect:   c.EntryPoints.Indirect,
		NamePrefix: c.NamePrefix,
		Registry:   r,
		Logger:     log,
	}
}

// Logger builds the zap logger described by the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
