package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"rpgtrans/internal/cache"
	"rpgtrans/internal/command"
	"rpgtrans/internal/config"
	"rpgtrans/internal/filewalker"
	"rpgtrans/internal/parser"
	"rpgtrans/internal/pluginconf"
	"rpgtrans/internal/textutil"
	"rpgtrans/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "rpgtrans",
		Short: "Translation text extraction and injection for RPG Maker MV/MZ games",
		Long:  "Extracts translatable text from RPG Maker MV/MZ data files into reviewable translation caches, and injects finished translations back into game-ready files.",
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(injectCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(pluginsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <data-dir> <cache-dir>",
		Short: "Extract translatable text from data files into translation caches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(args[0], args[1])
		},
	}
}

func injectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inject <data-dir> <cache-dir> <output-dir>",
		Short: "Inject translations back into data files",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInject(args[0], args[1], args[2])
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <cache-dir>",
		Short: "Show per-file translation progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(args[0])
		},
	}
}

func pluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect plugin text extraction configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsList()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "inspect <data-file>",
		Short: "Show the argument field trees of the plugin commands in a data file",
		Long:  "Scans a data file for plugin commands and prints each one's argument structure with inferred value types, so extraction patterns can be authored against the paths shown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsInspect(args[0])
		},
	})

	return cmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// loadPluginStore builds the plugin config store, layering the user config
// file over the predefined set when one is configured.
func loadPluginStore(cfg *config.Config) (*pluginconf.Store, error) {
	store := pluginconf.NewStore()
	if cfg.PluginConfigPath != "" {
		if err := store.LoadUserFile(cfg.PluginConfigPath); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func readJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// extractSummary is what one extract job reports back to the driver.
type extractSummary struct {
	File     string
	Units    int
	CJKUnits int
	Warnings []string
}

// countCJK counts the units whose source text carries CJK characters, a rough
// measure of how much actually needs translating.
func countCJK(units []parser.Unit) int {
	n := 0
	for _, u := range units {
		if textutil.ContainsCJK(u.Original) {
			n++
		}
	}
	return n
}

// runExtract handles the `extract` command.
func runExtract(dataDir, cacheDir string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	plugins, err := loadPluginStore(cfg)
	if err != nil {
		return err
	}
	registry := parser.DefaultRegistry(plugins)

	entries, err := filewalker.NewWalker(registry).Walk(dataDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		log.Warn().Str("dir", dataDir).Msg("No translatable data files found")
		return nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	store, err := cache.Open(filepath.Join(cacheDir, cfg.CacheDB))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := parser.DefaultExtractOptions()
	opts.MaxPrecedingLines = cfg.MaxPrecedingLines
	opts.StrictCodes = cfg.StrictCodes

	pool := worker.NewPool(cfg.WorkerCount,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.ExtractOutput, error) {
			doc, err := readJSON(entry.Path)
			if err != nil {
				return nil, err
			}
			return entry.Parser.Extract(doc, entry.Name, opts)
		},
	)
	jobs := pool.Run(ctx, entries)

	var summaries []extractSummary
	failed := 0

	for _, job := range jobs {
		if job.Err != nil {
			failed++
			continue
		}
		out := job.Result

		cacheFile := parser.NewCacheFile(out.SourceFile)
		cacheFile.AddUnits(out.Units)
		if err := writeJSON(filepath.Join(cacheDir, out.SourceFile), cacheFile); err != nil {
			log.Error().Err(err).Str("file", out.SourceFile).Msg("Write cache file failed")
			failed++
			continue
		}

		if err := store.RecordExtract(ctx, out); err != nil {
			log.Error().Err(err).Str("file", out.SourceFile).Msg("Record extraction failed")
			failed++
			continue
		}

		for _, w := range out.Warnings {
			log.Warn().Str("file", out.SourceFile).Msg(w)
		}
		for _, u := range out.Units {
			log.Debug().Str("id", u.ID).Str("text", textutil.Truncate(u.Original, 40)).Msg("Unit")
		}
		summaries = append(summaries, extractSummary{
			File:     out.SourceFile,
			Units:    len(out.Units),
			CJKUnits: countCJK(out.Units),
			Warnings: out.Warnings,
		})
	}

	total := 0
	for _, s := range summaries {
		log.Info().Str("file", s.File).Int("units", s.Units).Int("cjk_units", s.CJKUnits).Msg("Extracted")
		total += s.Units
	}
	log.Info().Int("files", len(summaries)).Int("units", total).Msg("Extraction complete")

	if failed > 0 {
		return fmt.Errorf("extraction failed for %d of %d files", failed, len(entries))
	}
	return nil
}

// injectSummary is what one inject job reports back to the driver.
type injectSummary struct {
	File     string
	Applied  int
	NotFound int
	Modified bool
}

// runInject handles the `inject` command.
func runInject(dataDir, cacheDir, outputDir string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	plugins, err := loadPluginStore(cfg)
	if err != nil {
		return err
	}
	registry := parser.DefaultRegistry(plugins)

	entries, err := filewalker.NewWalker(registry).Walk(dataDir)
	if err != nil {
		return err
	}

	store, err := cache.Open(filepath.Join(cacheDir, cfg.CacheDB))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := parser.DefaultInjectOptions()
	opts.MaxLineLength = cfg.MaxLineLength

	pool := worker.NewPool(cfg.WorkerCount,
		func(ctx context.Context, entry filewalker.FileEntry) (injectSummary, error) {
			translations, err := loadTranslations(ctx, store, cacheDir, entry.Name)
			if err != nil {
				return injectSummary{}, err
			}

			doc, err := readJSON(entry.Path)
			if err != nil {
				return injectSummary{}, err
			}

			out, err := entry.Parser.Inject(doc, translations, opts)
			if err != nil {
				return injectSummary{}, err
			}
			for _, w := range out.Warnings {
				log.Warn().Str("file", entry.Name).Msg(w)
			}

			if out.Modified {
				if err := writeJSON(filepath.Join(outputDir, entry.Name), doc); err != nil {
					return injectSummary{}, err
				}
			}

			return injectSummary{
				File:     entry.Name,
				Applied:  out.Applied,
				NotFound: out.NotFound,
				Modified: out.Modified,
			}, nil
		},
	)
	jobs := pool.Run(ctx, entries)

	applied, written, failed := 0, 0, 0
	for _, job := range jobs {
		if job.Err != nil {
			failed++
			continue
		}
		s := job.Result
		applied += s.Applied
		if s.Modified {
			written++
		}
		log.Info().
			Str("file", s.File).
			Int("applied", s.Applied).
			Int("not_found", s.NotFound).
			Bool("modified", s.Modified).
			Msg("Injected")
	}

	log.Info().Int("files", written).Int("applied", applied).Str("output", outputDir).Msg("Injection complete")

	if failed > 0 {
		return fmt.Errorf("injection failed for %d of %d files", failed, len(entries))
	}
	return nil
}

// loadTranslations merges one file's JSON cache document with the review
// store. The store wins: it holds the reviewed state, while the cache file
// may lag behind hand edits that were already imported.
func loadTranslations(ctx context.Context, store *cache.Store, cacheDir, name string) (map[string]string, error) {
	translations := make(map[string]string)

	cachePath := filepath.Join(cacheDir, name)
	if data, err := os.ReadFile(cachePath); err == nil {
		var cacheFile parser.CacheFile
		if err := json.Unmarshal(data, &cacheFile); err != nil {
			return nil, fmt.Errorf("decode cache file %s: %w", cachePath, err)
		}
		for id, text := range cacheFile.TranslationMap() {
			translations[id] = text
		}
	}

	stored, err := store.Translations(ctx, name)
	if err != nil {
		return nil, err
	}
	for id, text := range stored {
		translations[id] = text
	}

	return translations, nil
}

// runStatus handles the `status` command.
func runStatus(cacheDir string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	store, err := cache.Open(filepath.Join(cacheDir, cfg.CacheDB))
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Status(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No extractions recorded.")
		return nil
	}

	for _, row := range rows {
		pct := 0.0
		if row.Total > 0 {
			pct = float64(row.Translated) / float64(row.Total) * 100
		}
		fmt.Printf("%-24s %5d units  %5d translated (%5.1f%%)  %5d reviewed\n",
			row.SourceFile, row.Total, row.Translated, pct, row.Reviewed)
	}
	return nil
}

// runPluginsList handles `plugins list`.
func runPluginsList() error {
	cfg := config.Load()

	store, err := loadPluginStore(cfg)
	if err != nil {
		return err
	}

	names := store.Names()
	if len(names) == 0 {
		fmt.Println("No plugins configured.")
		return nil
	}

	for _, name := range names {
		pc, _ := store.Lookup(name)
		state := "enabled"
		if !pc.Enabled {
			state = "disabled"
		}
		fmt.Printf("%s (%s)\n", name, state)
		for _, field := range pc.Fields {
			marker := " "
			if field.Translatable {
				marker = "*"
			}
			fmt.Printf("  %s %s", marker, field.Pattern)
			if field.Description != "" {
				fmt.Printf("  %s", field.Description)
			}
			fmt.Println()
		}
	}
	return nil
}

// runPluginsInspect handles `plugins inspect`. It finds every plugin command
// in the file, wherever its command list lives, and prints the field tree a
// pattern would match against.
func runPluginsInspect(path string) error {
	doc, err := readJSON(path)
	if err != nil {
		return err
	}

	found := 0
	scanPluginCommands(doc, func(data command.PluginData) {
		found++
		fmt.Printf("%s (%s)\n", data.PluginName, data.Command)
		printFieldTree(pluginconf.Inspect(data.Arguments), 1)
	})

	if found == 0 {
		fmt.Println("No plugin commands found.")
	}
	return nil
}

// scanPluginCommands walks the whole document tree and reports each plugin
// invocation record it finds.
func scanPluginCommands(node any, fn func(command.PluginData)) {
	switch v := node.(type) {
	case map[string]any:
		if list, ok := v["list"].([]any); ok {
			for _, cmd := range command.ParseList(list) {
				if data, ok := cmd.PluginData(); ok {
					fn(data)
				}
			}
		}
		for _, child := range v {
			scanPluginCommands(child, fn)
		}
	case []any:
		for _, child := range v {
			scanPluginCommands(child, fn)
		}
	}
}

func printFieldTree(nodes []pluginconf.FieldNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		switch node.Type {
		case "string":
			fmt.Printf("%s%s: %q\n", indent, node.Name, node.Value)
		case "object", "array":
			fmt.Printf("%s%s (%s)\n", indent, node.Name, node.Type)
			printFieldTree(node.Children, depth+1)
		default:
			fmt.Printf("%s%s (%s)\n", indent, node.Name, node.Type)
		}
	}
}
