package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gotdt/cache"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the chunk translation cache",
	}
	cmd.AddCommand(newCacheExportCmd(a), newCacheImportCmd(a))
	return cmd
}

func (a *app) openConfiguredCache() (cache.TranslationCache, error) {
	if err := a.load(false); err != nil {
		return nil, err
	}
	c, err := a.openCache()
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if c == nil {
		return nil, errors.New("no cache backend configured (set CACHE_BACKEND to redis or sqlite)")
	}
	return c, nil
}

func newCacheExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all cached chunk translations to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openConfiguredCache()
			if err != nil {
				return err
			}
			defer cache.Close(c)

			meta := map[string]string{"backend": a.cfg.Cache.Backend}
			if err := cache.NewExporter(c).ExportToFile(args[0], meta); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Exported %s cache to %s\n", a.cfg.Cache.Backend, args[0])
			return nil
		},
	}
}

func newCacheImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load chunk translations from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openConfiguredCache()
			if err != nil {
				return err
			}
			defer cache.Close(c)

			result, err := cache.NewImporter(c).ImportFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Imported %d entries (%d skipped, %d failed)\n",
				result.Imported, result.Skipped, result.Failed)
			return nil
		},
	}
}
