// FILE: cmd/main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/configurable"
)

var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
	Level:           charmlog.InfoLevel,
	Prefix:          "settree",
})

type dumpOptions struct {
	file      string
	envPrefix string
	format    string
	set       []string
	required  []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "settree",
		Short:         "Inspect a settings tree with its overrides applied",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := charmlog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newDumpCmd(), newPathsCmd(), newTuneCmd(), newDebugCmd())
	return root
}

func newDumpCmd() *cobra.Command {
	opts := &dumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the configured tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.file, "file", "", "overrides file (toml, yaml or json)")
	flags.StringVar(&opts.envPrefix, "env-prefix", "SETTREE_", "environment variable prefix")
	flags.StringVar(&opts.format, "format", configurable.FormatTOML, "output format (toml, json, yaml)")
	flags.StringArrayVar(&opts.set, "set", nil, "override a setting, e.g. --set kafka.client_id=demo")
	flags.StringSliceVar(&opts.required, "require", nil, "paths that must resolve to a value")
	return cmd
}

func runDump(opts *dumpOptions) error {
	inst, err := demoSchema().New()
	if err != nil {
		return err
	}

	args := make([]string, 0, len(opts.set))
	for _, kv := range opts.set {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("invalid --set %q, expected path=value", kv)
		}
		args = append(args, "--"+kv)
	}

	builder := configurable.NewBuilder(inst.Config()).
		WithArgs(args).
		WithEnvPrefix(opts.envPrefix)
	if opts.file != "" {
		builder = builder.WithFile(opts.file)
	} else {
		builder = builder.WithFileDiscovery(configurable.DefaultDiscoveryOptions("settree"))
	}
	if len(opts.required) > 0 {
		builder = builder.WithValidator(func(n *configurable.Node) error {
			return n.Validate(opts.required...)
		})
	}

	node, err := builder.Build()
	if err != nil {
		if !errors.Is(err, configurable.ErrOverridesNotFound) {
			return err
		}
		logger.Warn("overrides file not found, using declared values", "file", opts.file)
	}

	for path, env := range node.DiscoverEnv(opts.envPrefix) {
		logger.Debug("environment override", "path", path, "env", env)
	}

	snap, err := node.Snapshot()
	if err != nil {
		return err
	}
	logger.Debug("snapshot ready", "keys", snap.Len())
	return snap.Encode(os.Stdout, opts.format)
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List every declared setting path",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range demoSchema().Config().Paths() {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}

// newTuneCmd exposes every declared path as a typed flag
func newTuneCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "tune [--path=value ...]",
		Short:              "Set settings through generated flags and print the result",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := demoSchema().New()
			if err != nil {
				return err
			}
			node := inst.Config()

			fs := node.GenerateFlags()
			if err := fs.Parse(args); err != nil {
				return fmt.Errorf("%w: %w", configurable.ErrCLIParse, err)
			}
			if err := node.BindFlags(fs); err != nil {
				return err
			}
			logger.Debug("flags bound", "changed", fs.NFlag())
			return node.Dump(cmd.OutOrStdout())
		},
	}
}

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Show the tree with lazy resolution state",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := demoSchema().New()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), inst.Config().Debug())
			return nil
		},
	}
}

// demoSchema declares a producer-style tree with nested scopes and a lazy setting
func demoSchema() *configurable.Schema {
	return configurable.MustSchema(func(n *configurable.Node) {
		n.Setting("client_id", configurable.WithDefault("settree"))
		n.Setting("concurrency", configurable.WithDefault(int64(5)))
		n.Setting("shutdown_timeout", configurable.WithDefault(60*time.Second))
		n.Setting("error_messages", configurable.WithDefault(map[string]any{
			"missing": "must be present",
		}))
		n.Setting("kafka", configurable.Nested(func(k *configurable.Node) {
			k.Setting("bootstrap_servers", configurable.WithDefault("127.0.0.1:9092"))
			k.Setting("acks", configurable.WithDefault("all"))
			k.Setting("producer", configurable.Nested(func(p *configurable.Node) {
				p.Setting("linger_ms", configurable.WithDefault(int64(5)))
				p.Setting("compression", configurable.WithDefault("none"))
			}))
		}))
		n.Setting("hostname", configurable.Lazy(), configurable.WithFactory(func() (any, error) {
			host, err := os.Hostname()
			if err != nil {
				return nil, err
			}
			return host, nil
		}))
	})
}
