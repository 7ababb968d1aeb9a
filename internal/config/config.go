// Package config loads sgen defaults from a YAML file, a .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eykd/stringgen-go/internal/domain"
)

// Pointer backends.
const (
	PointerAuto     = "auto"
	PointerX11      = "x11"
	PointerTerminal = "terminal"
	PointerNone     = "none"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SGEN_"

// Field names, as spelled in the YAML file. The matching environment
// variable is EnvPrefix plus the upper-cased name.
const (
	FieldLength        = "length"
	FieldClasses       = "classes"
	FieldMotion        = "motion"
	FieldMotionSeconds = "motion_seconds"
	FieldPointer       = "pointer"
	FieldOSRandom      = "os_random"
	FieldCopy          = "copy"
)

// Bounds for the motion budget in seconds.
const (
	MinMotionSeconds = 1
	MaxMotionSeconds = 300
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds user defaults. Flags given on the command line take precedence.
type Config struct {
	Length        int      `yaml:"length"`
	Classes       []string `yaml:"classes"`
	Motion        bool     `yaml:"motion"`
	MotionSeconds int      `yaml:"motion_seconds"`
	Pointer       string   `yaml:"pointer"`
	OSRandom      bool     `yaml:"os_random"`
	Copy          bool     `yaml:"copy"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Length:        8,
		MotionSeconds: 10,
		Pointer:       PointerAuto,
		OSRandom:      true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sgen/config.yaml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "sgen", "config.yaml"), nil
}

// Parse decodes YAML on top of the defaults. Keys absent from data keep their
// default value.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads the config file at path. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Loader resolves a Config from every source in precedence order:
// defaults, file, .env file, process environment.
type Loader struct {
	// DotEnvPath is read with godotenv without modifying the process
	// environment. A missing file is ignored.
	DotEnvPath string
	// LookupEnv reads the process environment; nil means os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Load reads the file at path and applies environment overrides, then
// validates the result. Fields named in overridden are supplied by the caller
// afterwards: their environment values are not read and they are not
// validated, so a bad default never blocks an explicit flag.
func (l Loader) Load(path string, overridden ...string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}

	env := map[string]string{}
	if l.DotEnvPath != "" {
		dotenv, err := godotenv.Read(l.DotEnvPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", l.DotEnvPath, err)
		}
		for k, v := range dotenv {
			env[k] = v
		}
	}
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range envKeys {
		if v, ok := lookup(EnvPrefix + key); ok {
			env[EnvPrefix+key] = v
		}
	}
	for _, field := range overridden {
		delete(env, EnvPrefix+strings.ToUpper(field))
	}

	if err := cfg.ApplyEnv(env); err != nil {
		return Config{}, err
	}
	if err := cfg.ValidateExcept(overridden...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var envKeys = []string{"LENGTH", "CLASSES", "MOTION", "MOTION_SECONDS", "POINTER", "OS_RANDOM", "COPY"}

// ApplyEnv overrides fields from SGEN_* entries in env. All malformed values
// are reported together.
func (c *Config) ApplyEnv(env map[string]string) error {
	var result *multierror.Error

	for _, key := range envKeys {
		raw, ok := env[EnvPrefix+key]
		if !ok {
			continue
		}
		name := EnvPrefix + key
		switch key {
		case "LENGTH":
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %q is not a number", name, raw))
				continue
			}
			c.Length = n
		case "MOTION_SECONDS":
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %q is not a number", name, raw))
				continue
			}
			c.MotionSeconds = n
		case "CLASSES":
			c.Classes = splitList(raw)
		case "POINTER":
			c.Pointer = strings.ToLower(strings.TrimSpace(raw))
		case "MOTION", "OS_RANDOM", "COPY":
			b, err := strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %q is not a boolean", name, raw))
				continue
			}
			switch key {
			case "MOTION":
				c.Motion = b
			case "OS_RANDOM":
				c.OSRandom = b
			case "COPY":
				c.Copy = b
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	return c.ValidateExcept()
}

// ValidateExcept is Validate without the checks for the named fields.
func (c Config) ValidateExcept(skip ...string) error {
	var result *multierror.Error
	check := func(field string) bool {
		for _, s := range skip {
			if s == field {
				return false
			}
		}
		return true
	}

	if check(FieldLength) {
		if err := domain.ValidateLength(c.Length); err != nil {
			result = multierror.Append(result, fmt.Errorf("length: %w", err))
		}
	}
	if check(FieldMotionSeconds) && (c.MotionSeconds < MinMotionSeconds || c.MotionSeconds > MaxMotionSeconds) {
		result = multierror.Append(result, fmt.Errorf("motion_seconds: must be between %d and %d, got %d", MinMotionSeconds, MaxMotionSeconds, c.MotionSeconds))
	}
	if check(FieldPointer) {
		switch c.Pointer {
		case PointerAuto, PointerX11, PointerTerminal, PointerNone:
		default:
			result = multierror.Append(result, fmt.Errorf("pointer: unknown backend %q", c.Pointer))
		}
	}
	if check(FieldClasses) {
		for _, name := range c.Classes {
			if _, err := domain.ParseClass(name); err != nil {
				result = multierror.Append(result, fmt.Errorf("classes: %w", err))
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Selection converts the configured class names. Unknown names are an error;
// Validate reports them too.
func (c Config) Selection() (domain.ClassSelection, error) {
	var sel domain.ClassSelection
	for _, name := range c.Classes {
		class, err := domain.ParseClass(name)
		if err != nil {
			return domain.ClassSelection{}, err
		}
		sel = sel.With(class)
	}
	return sel, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
