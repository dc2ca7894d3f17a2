// Package main provides the CLI entrypoint for cogtrain.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cogtrain/internal/config"
	"github.com/verte-zerg/cogtrain/internal/history"
	"github.com/verte-zerg/cogtrain/internal/insight"
	"github.com/verte-zerg/cogtrain/internal/logx"
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/stats"
	"github.com/verte-zerg/cogtrain/internal/statsui"
	"github.com/verte-zerg/cogtrain/internal/store"
	"github.com/verte-zerg/cogtrain/internal/tui"
)

var (
	dbPath     string
	configPath string
	seed       int64
	langFlag   string

	statsLast int

	exportFormat string
	exportOut    string

	clearYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cogtrain",
		Short:         "Terminal cognitive training games",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGames(cmd, tui.UnifiedSteps())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbPath, "db", config.DefaultDBPath(), "database path")
	flags.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	flags.Int64Var(&seed, "seed", 0, "random seed for reproducible runs (0: random)")
	flags.StringVar(&langFlag, "lang", "", "advice language (default: stored language)")

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newInsightsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPrefsCmd())
	rootCmd.AddCommand(newLangCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newStorageCmd())

	return rootCmd
}

// app bundles the opened database with everything loaded from it.
type app struct {
	st      *store.Store
	history *history.Store
	file    config.FileConfig
	prefs   model.Prefs
	lang    string
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyLangConfig(cmd, fileCfg.General.Lang)
	applySeedConfig(cmd, fileCfg.General.Seed)

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	ctx := cmd.Context()
	a := &app{
		st:      st,
		history: history.Open(ctx, st),
		file:    fileCfg,
		prefs:   fileCfg.Apply(config.LoadPrefs(ctx, st, logx.Errf)),
		lang:    config.LoadLang(ctx, st),
	}
	if langFlag != "" {
		lang, err := config.ParseLang(langFlag)
		if err != nil {
			a.close()
			return nil, err
		}
		a.lang = lang
	}
	return a, nil
}

func (a *app) close() {
	if err := a.st.Close(); err != nil {
		logx.Errf("failed to close db: %v\n", err)
	}
}

func (a *app) rand() random.Source {
	if seed != 0 {
		return random.NewSeeded(seed)
	}
	return random.New()
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "play <game>",
		Short:     "Play a single game",
		Args:      cobra.ExactArgs(1),
		ValidArgs: model.GameKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := model.ParseGame(args[0])
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(model.GameKeys(), ", "))
			}
			return runGames(cmd, []tui.Step{{Game: game}})
		},
	}
}

func runGames(cmd *cobra.Command, steps []tui.Step) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	m := tui.NewModel(tui.Options{
		Steps:   steps,
		Prefs:   a.prefs,
		History: a.history,
		Rand:    a.rand(),
		Lang:    a.lang,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Edits to the config file apply from the next game on.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	stored := config.LoadPrefs(ctx, a.st, logx.Errf)
	go func() {
		err := config.Watch(ctx, configPath,
			func(fc config.FileConfig) { program.Send(tui.PrefsMsg{Prefs: fc.Apply(stored)}) },
			func(err error) { logx.Errf("config reload failed: %v\n", err) },
		)
		if err != nil && ctx.Err() == nil {
			logx.Errf("config watch disabled: %v\n", err)
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse history, trends and advice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			plan, err := config.LoadPlan(cmd.Context(), a.st)
			if err != nil {
				logx.Errf("%v\n", err)
			}
			m := statsui.NewModel(statsui.Options{
				Records: a.history.All(),
				Plan:    plan,
				Lang:    a.lang,
				Last:    statsLast,
			})
			program := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run stats TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit trends to the last N sessions per game")
	return cmd
}

func newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Print session counts and training advice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			plan, err := config.LoadPlan(cmd.Context(), a.st)
			if err != nil {
				logx.Errf("%v\n", err)
			}
			return writeInsights(cmd.OutOrStdout(), a.history.All(), plan, a.lang)
		},
	}
}

func writeInsights(w io.Writer, records []model.SessionRecord, plan []model.PlanItem, lang string) error {
	now := timeNow()
	st := insight.ComputeStats(records, now)
	rep := stats.BuildReport(records, 20)
	trends := make(map[model.Game]stats.Trend, len(rep.Trends))
	for _, tr := range rep.Trends {
		trends[tr.Game] = tr
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Today: %d  Streak: %d d  Last 7 days: %d\n\n",
		insight.TodayCount(records, now), insight.Streak(records, now), len(st.Last7d))

	counts := stats.Table{Headers: []string{"Game", "Total", "Trend"}, Right: map[int]bool{1: true}}
	for _, g := range model.Games {
		counts.Rows = append(counts.Rows, []string{
			g.Title(),
			strconv.Itoa(st.Totals[g]),
			stats.Sparkline(trends[g].Values),
		})
	}
	if err := counts.Render(&buf); err != nil {
		return err
	}
	if top := stats.MostPlayed(st.Totals, 3); len(top) > 0 {
		names := make([]string, len(top))
		for i, g := range top {
			names[i] = g.Title()
		}
		fmt.Fprintf(&buf, "Most played: %s\n\n", strings.Join(names, ", "))
	}

	if len(plan) > 0 {
		buf.WriteString("Today's plan:\n")
		for _, p := range insight.PlanProgress(plan, records, now) {
			mark := " "
			if p.Complete() {
				mark = "x"
			}
			fmt.Fprintf(&buf, "  [%s] %s %d/%d\n", mark, p.Item.Game.Title(), p.Done, p.Item.TargetPerDay)
		}
		buf.WriteString("\n")
	}

	buf.WriteString("Advice:\n")
	for _, rec := range st.Recommendations {
		fmt.Fprintf(&buf, "  - %s\n", insight.Message(rec, lang))
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := strings.ToLower(strings.TrimSpace(exportFormat))
			if format != "json" && format != "csv" {
				return fmt.Errorf("--format must be json or csv")
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			var buf bytes.Buffer
			records := a.history.All()
			if format == "csv" {
				err = history.ExportCSV(&buf, records)
			} else {
				err = history.ExportJSON(&buf, records)
			}
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			if exportOut == "" || exportOut == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := writeFileAtomic(exportOut, buf.Bytes()); err != nil {
				return err
			}
			logx.Errf("Exported %d records to %s\n", len(records), exportOut)
			return nil
		},
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "export format: json or csv")
	cmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace history with an exported JSON or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			var records []model.SessionRecord
			switch strings.ToLower(filepath.Ext(path)) {
			case ".csv":
				records, err = history.DecodeCSV(bytes.NewReader(data))
			case ".json":
				records, err = history.DecodeJSON(data)
			default:
				return fmt.Errorf("unsupported import file %q (use .json or .csv)", path)
			}
			if err != nil {
				var ie *history.ImportError
				if errors.As(err, &ie) && ie.Index >= 0 {
					return fmt.Errorf("import rejected at record %d: %w", ie.Index+1, ie.Err)
				}
				return fmt.Errorf("import rejected: %w", err)
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.history.Replace(cmd.Context(), records); err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}
			logx.Errf("Imported %d records\n", a.history.Len())
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all session history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !clearYes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			a.history.Clear(cmd.Context())
			logx.Errln("History cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deletion")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change stored game preferences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective preferences as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return writeJSON(cmd.OutOrStdout(), a.prefs)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "set <path> <value>",
		Short:   "Set one preference, e.g. sst.stepMs 40",
		Args:    cobra.ExactArgs(2),
		Example: "  cogtrain prefs set reaction.attempts 10\n  cogtrain prefs set soundEnabled true",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			// Edit the stored blob, not the file overlay.
			stored := config.LoadPrefs(cmd.Context(), a.st, logx.Errf)
			next, err := config.SetPref(stored, args[0], args[1])
			if err != nil {
				return err
			}
			if err := config.SavePrefs(cmd.Context(), a.st, next); err != nil {
				return fmt.Errorf("failed to save prefs: %w", err)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := config.SavePrefs(cmd.Context(), a.st, config.DefaultPrefs()); err != nil {
				return fmt.Errorf("failed to save prefs: %w", err)
			}
			return nil
		},
	})
	return cmd
}

func newLangCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or set the interface language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if len(args) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (available: %s)\n", a.lang, strings.Join(config.Langs, ", "))
				return err
			}
			lang, err := config.ParseLang(args[0])
			if err != nil {
				return err
			}
			if err := config.SaveLang(cmd.Context(), a.st, lang); err != nil {
				return fmt.Errorf("failed to save language: %w", err)
			}
			return nil
		},
	}
}

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [game target]",
		Short: "Show today's plan or set a daily target (0 removes it)",
		Args:  cobra.MatchAll(cobra.MaximumNArgs(2), planArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()
			plan, err := config.LoadPlan(ctx, a.st)
			if err != nil {
				logx.Errf("%v\n", err)
			}
			if len(args) == 0 {
				var buf bytes.Buffer
				for _, p := range insight.PlanProgress(plan, a.history.All(), timeNow()) {
					fmt.Fprintf(&buf, "%-16s %d/%d\n", p.Item.Game.Title(), p.Done, p.Item.TargetPerDay)
				}
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			game, err := model.ParseGame(args[0])
			if err != nil {
				return err
			}
			target, err := strconv.Atoi(args[1])
			if err != nil || target < 0 {
				return fmt.Errorf("target must be a non-negative integer")
			}
			plan, err = config.SetTarget(plan, game, target)
			if err != nil {
				return err
			}
			if err := config.SavePlan(ctx, a.st, plan); err != nil {
				return fmt.Errorf("failed to save plan: %w", err)
			}
			return nil
		},
	}
}

func planArgs(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("plan needs both a game and a target")
	}
	return nil
}

func newStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logx.Errf("failed to close db: %v\n", cerr)
				}
			}()
			entries, err := st.Entries(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}
			t := stats.Table{Headers: []string{"Key", "Bytes", "Updated"}, Right: map[int]bool{1: true}}
			for _, e := range entries {
				t.Rows = append(t.Rows, []string{e.Key, strconv.Itoa(e.Size), e.UpdatedAt.Local().Format("2006-01-02 15:04:05")})
			}
			return t.Render(cmd.OutOrStdout())
		},
	}
}

func applyLangConfig(cmd *cobra.Command, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed("lang") {
		return
	}
	langFlag = *value
}

func applySeedConfig(cmd *cobra.Command, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed("seed") {
		return
	}
	seed = *value
}
