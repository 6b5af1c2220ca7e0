package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	pageresolver "github.com/goliatone/go-pageresolver"
	resolverhttp "github.com/goliatone/go-pageresolver/internal/http"
	"github.com/spf13/cobra"
)

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <slug>",
		Short: "Resolve a slug and print the match as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved := a.module.Resolve(cmd.Context(), args[0])
			if resolved == nil {
				return fmt.Errorf("%w %q", errNoMatch, args[0])
			}
			return a.writeJSON(resolverhttp.NewResolveView(resolved))
		},
	}
}

func (a *app) hierarchyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy <slug>",
		Short: "Print the static page chain of a slug, root first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved := a.module.Resolve(cmd.Context(), args[0])
			if resolved == nil {
				return fmt.Errorf("%w %q", errNoMatch, args[0])
			}
			return a.writeJSON(resolverhttp.NewPageViews(a.module.Hierarchy(cmd.Context(), resolved)))
		},
	}
}

func (a *app) mappingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Inspect or change block type to repository mappings",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List block mappings",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			mapping := a.module.BlockMappings()
			types := make([]string, 0, len(mapping))
			for blockType := range mapping {
				types = append(types, blockType)
			}
			sort.Strings(types)
			for _, blockType := range types {
				fmt.Fprintf(a.out, "%s: %s\n", blockType, strings.Join(mapping[blockType], ", "))
			}
			return nil
		},
	}

	var save bool
	add := &cobra.Command{
		Use:   "add <block-type> <handle> [handle...]",
		Short: "Map a block type to repository handles",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.module.AddBlockMapping(args[0], args[1:]...); err != nil {
				return err
			}
			if save {
				if a.configPath == "" {
					return fmt.Errorf("--save requires --config")
				}
				if err := a.viper.WriteConfig(); err != nil {
					return fmt.Errorf("write config %s: %w", a.configPath, err)
				}
			}
			fmt.Fprintf(a.out, "%s: %s\n", strings.ToLower(strings.TrimSpace(args[0])), strings.Join(args[1:], ", "))
			return nil
		},
	}
	add.Flags().BoolVar(&save, "save", false, "Persist the mapping to the config file")

	cmd.AddCommand(list, add)
	return cmd
}

func (a *app) handlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handles",
		Short: "List registered repository handles",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, handle := range a.module.RepositoryHandles() {
				fmt.Fprintln(a.out, handle)
			}
			return nil
		},
	}
}

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the resolution cache",
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print cache configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.writeJSON(a.module.CacheStats())
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear [slug]",
		Short: "Evict one slug, or every cached result when no slug is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.module.ClearPageCache(cmd.Context(), args[0])
			}
			removed, err := a.module.ClearAllPageCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "removed %d entries\n", removed)
			return nil
		},
	}

	cmd.AddCommand(stats, clearCmd)
	return cmd
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the page and content tables on SQL storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db := a.module.Container().BunDB()
			if db == nil {
				return fmt.Errorf("migrate requires sqlite or postgres storage")
			}
			if err := pageresolver.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "migrations applied")
			return nil
		},
	}
}

func (a *app) writeJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(encoded))
	return nil
}
