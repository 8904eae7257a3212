package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/config"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/loader"
	"github.com/wippyai/jvm-runtime/runtime"
)

var (
	configPath string
	classPath  []string
	maxDepth   int
	maxSteps   int
	logLevel   string
	devLog     bool
	trace      bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "jvmrun",
	Short: "Inspect and run JVM class files",
	Long: `jvmrun decodes Java class files, prints their structure and runs static
methods on a bytecode interpreter. Classes are looked up on a class path of
directories and .jar/.zip archives, configured by flags or a TOML file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		l, err := c.NewLogger()
		if err != nil {
			return err
		}
		cfg, logger = c, l
		classfile.SetLogger(l)
		engine.SetLogger(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	flags.StringSliceVar(&classPath, "cp", nil, "class path entries (directories, .jar or .zip), overrides class_path")
	flags.IntVar(&maxDepth, "max-depth", engine.DefaultMaxDepth, "maximum call depth")
	flags.IntVar(&maxSteps, "max-steps", 0, "maximum executed instructions per call (0 means unlimited)")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&devLog, "dev", false, "human readable development logging")
	flags.BoolVar(&trace, "trace", false, "log every executed instruction at debug level")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(browseCmd)
}

// loadConfig reads the configuration file, if any, and applies the flags
// the user set explicitly on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.Default()
	if configPath != "" {
		var err error
		if c, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("cp") {
		c.ClassPath = classPath
	}
	if flags.Changed("max-depth") {
		c.MaxCallDepth = maxDepth
	}
	if flags.Changed("max-steps") {
		c.MaxSteps = maxSteps
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("dev") {
		c.Log.Development = devLog
	}
	if flags.Changed("trace") {
		c.Trace = trace
	}
	if c.Trace && !flags.Changed("log-level") {
		c.Log.Level = "debug"
	}
	return c, c.Validate()
}

// openRuntime builds a runtime over the configured class path. The
// returned function closes any opened archives.
func openRuntime() (*runtime.Runtime, func(), error) {
	chain, err := cfg.Loaders()
	if err != nil {
		return nil, nil, err
	}
	return newRuntime(chain)
}

func newRuntime(chain loader.Chain) (*runtime.Runtime, func(), error) {
	closeChain := func() {
		if err := chain.Close(); err != nil {
			logger.Warn("close class path", zap.Error(err))
		}
	}
	rt, err := runtime.New(chain,
		runtime.WithCacheSize(cfg.ClassCacheSize),
		runtime.WithMaxCallDepth(cfg.MaxCallDepth),
		runtime.WithMaxSteps(cfg.MaxSteps),
		runtime.WithLogger(logger),
		runtime.WithTrace(cfg.Trace),
	)
	if err != nil {
		closeChain()
		return nil, nil, err
	}
	logger.Debug("runtime ready",
		zap.Strings("class_path", cfg.ClassPath),
		zap.Int("max_call_depth", cfg.MaxCallDepth),
		zap.Int("max_steps", cfg.MaxSteps))
	return rt, closeChain, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
