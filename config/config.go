package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/escseq/escseq"
	"github.com/escseq/escseq/internal/util"
	"github.com/goccy/go-yaml"
)

// MouseMode specifies whether SGR mouse reporting is turned on.
type MouseMode string

const (
	MouseModeSGR  MouseMode = "sgr"
	MouseModeNone MouseMode = "none"
)

func (m *MouseMode) unmarshal(s string) error {
	switch s {
	case "", "sgr":
		*m = MouseModeSGR
	case "none":
		*m = MouseModeNone
	default:
		return fmt.Errorf("invalid Mouse value %q: must be %q or %q", s, MouseModeSGR, MouseModeNone)
	}
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by JSON/YAML decoders).
func (m *MouseMode) UnmarshalText(b []byte) error {
	return m.unmarshal(string(b))
}

// UnmarshalFlag implements go-flags Unmarshaler (used by CLI flag parsing).
func (m *MouseMode) UnmarshalFlag(s string) error {
	return m.unmarshal(s)
}

// Config holds all the data that can be configured in the
// external configuration file
type Config struct {
	// ClickInterval is how long a click stays eligible to become a
	// double click, and a double click a triple click.
	ClickInterval Duration `json:"ClickInterval" yaml:"ClickInterval"`
	// ContinuousPressInterval is the cadence of repeat notifications
	// while a mouse button is held down.
	ContinuousPressInterval Duration `json:"ContinuousPressInterval" yaml:"ContinuousPressInterval"`
	// EscapeTimeout is how long a lone ESC waits for more input.
	EscapeTimeout Duration  `json:"EscapeTimeout" yaml:"EscapeTimeout"`
	Mouse         MouseMode `json:"Mouse" yaml:"Mouse"`
	// Queries are sent to the terminal at startup, by name.
	Queries []string `json:"Queries" yaml:"Queries"`
}

var homedirFunc = util.Homedir

// Init initializes the Config with default values
func (c *Config) Init() error {
	c.ClickInterval = Duration(escseq.DefaultTimings.ClickInterval)
	c.ContinuousPressInterval = Duration(escseq.DefaultTimings.ContinuousPressInterval)
	c.EscapeTimeout = Duration(escseq.DefaultEscapeTimeout)
	c.Mouse = MouseModeSGR
	return nil
}

// ReadFilename reads the config from the given file, and
// does the appropriate processing, if any
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		err = json.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	}

	return c.Validate()
}

// Validate checks that every interval is positive and every query
// name is known.
func (c *Config) Validate() error {
	for name, d := range map[string]Duration{
		"ClickInterval":           c.ClickInterval,
		"ContinuousPressInterval": c.ContinuousPressInterval,
		"EscapeTimeout":           c.EscapeTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	for _, name := range c.Queries {
		if _, err := escseq.LookupQuery(name); err != nil {
			return fmt.Errorf("invalid query in Queries: %w", err)
		}
	}
	return nil
}

// Timings returns the decoder timings described by the config.
func (c *Config) Timings() escseq.Timings {
	return escseq.Timings{
		ClickInterval:           time.Duration(c.ClickInterval),
		ContinuousPressInterval: time.Duration(c.ContinuousPressInterval),
	}
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultConfigLocator searches for a config file with one of the known
// filenames (config.json, config.yaml, config.yml) in the given directory.
var DefaultConfigLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", fmt.Errorf("config file not found in %s", dir)
})

// LocateRcfile attempts to find the config file in various locations
func LocateRcfile(locater Locator) (string, error) {
	// http://standards.freedesktop.org/basedir-spec/basedir-spec-latest.html
	//
	// Try in this order:
	//	  $XDG_CONFIG_HOME/escseq/config.{json,yaml,yml}
	//    $XDG_CONFIG_DIR/escseq/config.{json,yaml,yml} (where XDG_CONFIG_DIR is listed in $XDG_CONFIG_DIRS)
	//	  ~/.escseq/config.{json,yaml,yml}

	home, uErr := homedirFunc()

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locater.Locate(filepath.Join(dir, "escseq")); err == nil {
			return file, nil
		}
	} else if uErr == nil { // silently ignore failure for homedir()
		if file, err := locater.Locate(filepath.Join(home, ".config", "escseq")); err == nil {
			return file, nil
		}
	}

	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for _, dir := range strings.Split(dirs, fmt.Sprintf("%c", filepath.ListSeparator)) {
			if file, err := locater.Locate(filepath.Join(dir, "escseq")); err == nil {
				return file, nil
			}
		}
	}

	if uErr == nil { // silently ignore failure for homedir()
		if file, err := locater.Locate(filepath.Join(home, ".escseq")); err == nil {
			return file, nil
		}
	}

	return "", errors.New("config file not found")
}
