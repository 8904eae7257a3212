// Package config loads jvmrun settings from TOML and builds the pieces
// they describe: the class path search order and the zap logger.
//
// A configuration file looks like:
//
//	class_path = ["build/classes", "lib/util.jar"]
//	max_call_depth = 512
//	max_steps = 1000000
//	class_cache_size = 256
//
//	[log]
//	level = "debug"
//	development = true
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/errors"
	"github.com/wippyai/jvm-runtime/loader"
)

// Config holds runtime and logging settings.
type Config struct {
	// ClassPath lists directories and .jar/.zip archives in search order.
	ClassPath      []string  `toml:"class_path"`
	MaxCallDepth   int       `toml:"max_call_depth"`
	MaxSteps       int       `toml:"max_steps"`
	ClassCacheSize int       `toml:"class_cache_size"`
	Trace          bool      `toml:"trace"`
	Log            LogConfig `toml:"log"`
}

// LogConfig selects the logger built by NewLogger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// DefaultClassCacheSize is the number of decoded classes kept by default.
const DefaultClassCacheSize = 256

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		ClassPath:      []string{"."},
		MaxCallDepth:   engine.DefaultMaxDepth,
		ClassCacheSize: DefaultClassCacheSize,
		Log:            LogConfig{Level: "warn"},
	}
}

// Load reads the TOML file at path over the defaults and validates the
// result. Relative class path entries are resolved against the file's
// directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, entry := range cfg.ClassPath {
		if !filepath.IsAbs(entry) {
			cfg.ClassPath[i] = filepath.Join(base, entry)
		}
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults. Unknown keys are rejected.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.InvalidInput(errors.PhaseConfig, "unknown keys: "+strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	switch {
	case len(c.ClassPath) == 0:
		return errors.InvalidInput(errors.PhaseConfig, "class_path is empty")
	case c.MaxCallDepth <= 0:
		return errors.InvalidInput(errors.PhaseConfig, "max_call_depth must be positive")
	case c.MaxSteps < 0:
		return errors.InvalidInput(errors.PhaseConfig, "max_steps must not be negative")
	case c.ClassCacheSize <= 0:
		return errors.InvalidInput(errors.PhaseConfig, "class_cache_size must be positive")
	}
	for _, entry := range c.ClassPath {
		if strings.TrimSpace(entry) == "" {
			return errors.InvalidInput(errors.PhaseConfig, "class_path has an empty entry")
		}
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) level() (zapcore.Level, error) {
	if c.Log.Level == "" {
		return zapcore.WarnLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return lvl, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	return lvl, nil
}

// NewLogger builds a zap logger writing to stderr: JSON in production
// mode, colored console output in development mode.
func (c *Config) NewLogger() (*zap.Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// Loaders opens the class path entries in order. Directories become
// DirLoaders and .jar/.zip files ZipLoaders. The caller closes the chain.
func (c *Config) Loaders() (loader.Chain, error) {
	chain := make(loader.Chain, 0, len(c.ClassPath))
	for _, entry := range c.ClassPath {
		l, err := openEntry(entry)
		if err != nil {
			_ = chain.Close()
			return nil, err
		}
		chain = append(chain, l)
	}
	return chain, nil
}

func openEntry(entry string) (jvmruntime.ClassLoader, error) {
	info, err := os.Stat(entry)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "class path entry "+entry)
	}
	if info.IsDir() {
		return loader.NewDirLoader(entry), nil
	}
	switch strings.ToLower(filepath.Ext(entry)) {
	case ".jar", ".zip":
		z, err := loader.OpenZip(entry)
		if err != nil {
			return nil, err
		}
		return z, nil
	}
	return nil, errors.InvalidInput(errors.PhaseConfig,
		fmt.Sprintf("class path entry %s is neither a directory nor a .jar/.zip archive", entry))
}
