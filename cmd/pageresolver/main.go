package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	pageresolver "github.com/goliatone/go-pageresolver"
	"github.com/goliatone/go-pageresolver/internal/logging/console"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "PAGERESOLVER"

var errNoMatch = errors.New("no page matches")

// app holds the state shared by every subcommand.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath  string
	fixtures    []string
	environment string

	viper  *viper.Viper
	module *pageresolver.Module
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "pageresolver",
		Short:         "Resolve URL slugs to static pages or nested content",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.bootstrap(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.module == nil {
				return nil
			}
			return a.module.Close()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML config file (resolver section plus block mappings)")
	flags.StringSliceVarP(&a.fixtures, "fixtures", "f", nil, "Fixture files seeded before the command runs")
	flags.StringVar(&a.environment, "env", "", "Override resolver.environment")

	root.AddCommand(
		a.resolveCmd(),
		a.hierarchyCmd(),
		a.mappingsCmd(),
		a.handlesCmd(),
		a.cacheCmd(),
		a.migrateCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) bootstrap(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if a.configPath != "" {
		v.SetConfigFile(a.configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.configPath, err)
		}
	}
	if a.environment != "" {
		v.Set("resolver.environment", a.environment)
	}

	cfg, err := pageresolver.LoadConfig(v)
	if err != nil {
		return err
	}
	opts := []pageresolver.Option{pageresolver.WithConfigSource(v)}
	if !strings.EqualFold(strings.TrimSpace(cfg.Logging.Provider), "gologger") {
		// Keep stdout for command output.
		level := console.ParseLevel(cfg.Logging.Level)
		opts = append(opts, pageresolver.WithLoggerProvider(console.NewProvider(console.Options{
			Writer:   a.errOut,
			MinLevel: &level,
		})))
	}
	module, err := pageresolver.New(cfg, opts...)
	if err != nil {
		return err
	}
	a.viper = v
	a.module = module

	for _, path := range a.fixtures {
		if _, err := module.SeedFile(cmd.Context(), path); err != nil {
			return fmt.Errorf("seed %s: %w", path, err)
		}
	}
	return nil
}
