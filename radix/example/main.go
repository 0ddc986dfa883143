// Command example builds a compiled trie from a "key<TAB>value" file, saves it
// as CBOR and looks keys up in a saved table.
//
//	example build topics.tsv topics.cbor --scheme delimited:/
//	example find topics.cbor /sensors/kitchen/temp --prefixes
//	example find topics.cbor /sensors --metrics
//	example dump topics.tsv
//
// Settings come from flags, TRIE_* environment variables or a config file
// (--config trie.toml).
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aglyzov/go-trie/metrics"
	"github.com/aglyzov/go-trie/radix"
)

type options struct {
	radix.Config `mapstructure:",squash"`

	LogLevel string `mapstructure:"log_level"`
}

var (
	v   = viper.New()
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "example",
	Short:         "build and query compiled tries",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			v.SetConfigFile(path)

			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}

		opts, err := loadOptions()
		if err != nil {
			return err
		}

		log, err = newLogger(opts.LogLevel)

		return err
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <input.tsv> <output.cbor>",
	Short: "compile a key<TAB>value file into a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		b, err := readBuilder(args[0])
		if err != nil {
			return err
		}

		tab := b.CompileTable()

		data, err := tab.MarshalCBOR()
		if err != nil {
			return err
		}

		if err := os.WriteFile(args[1], data, 0o644); err != nil {
			return err
		}

		log.Info("table saved",
			zap.String("path", args[1]),
			zap.Int("size", len(data)),
			zap.Stringer("stats", tab.Stats()),
		)

		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <table.cbor> <key>...",
	Short: "look keys up in a saved table",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		tab, err := radix.UnmarshalTable[string](data)
		if err != nil {
			return err
		}

		log.Debug("table loaded", zap.Stringer("table", tab))

		var (
			a           = tab.Automaton()
			prefixes, _ = cmd.Flags().GetBool("prefixes")
			out         = cmd.OutOrStdout()
		)

		for _, key := range args[1:] {
			if prefixes {
				a.WalkPath(key, func(prefix, val string) bool {
					fmt.Fprintf(out, "%s\t%s\t%s\n", key, prefix, val)
					return true
				})
				continue
			}

			if !a.Find(key) {
				fmt.Fprintf(out, "%s\t-\n", key)
				continue
			}

			a.Visit(func(val string) {
				fmt.Fprintf(out, "%s\t%s\n", key, val)
			})
		}

		if withMetrics, _ := cmd.Flags().GetBool("metrics"); withMetrics {
			return writeMetrics(out, filepath.Base(args[0]), tab)
		}

		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <input.tsv>",
	Short: "print the trie of a key<TAB>value file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readBuilder(args[0])
		if err != nil {
			return err
		}

		b.Dump(cmd.OutOrStdout())

		return nil
	},
}

func init() {
	def := radix.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.String("config", "", "config file (toml, yaml or json)")
	flags.String("scheme", def.Scheme, "key units: bytes | runes | delimited:<byte>")
	flags.Bool("compression", def.Compression, "compress edges (radix trie)")
	flags.String("strategy", def.Strategy, "compiled layout: index | pointer")
	flags.String("duplicates", def.Duplicates, "duplicate keys: overwrite | keep-first | reject")
	flags.Int("dense-fanout", def.DenseFanout, "edge count for a bitmap index, 0 to disable")
	flags.String("log-level", "info", "log level")

	for key, flag := range map[string]string{
		"scheme":       "scheme",
		"compression":  "compression",
		"strategy":     "strategy",
		"duplicates":   "duplicates",
		"dense_fanout": "dense-fanout",
		"log_level":    "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	v.SetEnvPrefix("TRIE")
	v.AutomaticEnv()

	findCmd.Flags().Bool("prefixes", false, "print all stored prefixes of every key")
	findCmd.Flags().Bool("metrics", false, "print the table metrics in the Prometheus text format")

	rootCmd.AddCommand(buildCmd, findCmd, dumpCmd)
}

func loadOptions() (options, error) {
	var opts options

	if err := v.Unmarshal(&opts); err != nil {
		return opts, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}

	return opts, nil
}

// writeMetrics exposes the table stats the way a /metrics endpoint would.
func writeMetrics(w io.Writer, name string, tab metrics.Statser) error {
	var (
		reg       = prometheus.NewRegistry()
		collector = metrics.NewCollector("example")
	)

	if err := collector.Register(name, tab); err != nil {
		return err
	}

	if err := reg.Register(collector); err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl

	return cfg.Build()
}

// readBuilder adds every "key<TAB>value" line of the file to a new builder.
// A line without a tab is a key with an empty value.
func readBuilder(path string) (*radix.Builder[string], error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}

	bopts, err := opts.Options()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		b       = radix.NewBuilder[string](append(bopts, radix.WithLogger(log))...)
		scanner = bufio.NewScanner(f)
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++

		key, val, _ := strings.Cut(scanner.Text(), "\t")

		if _, err := b.Add(key, val); err != nil {
			if errors.Is(err, radix.ErrEmptyKey) {
				continue
			}

			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Debug("keys loaded", zap.String("path", path), zap.Int("keys", b.Len()), zap.Int("nodes", b.Nodes()))

	return b, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
