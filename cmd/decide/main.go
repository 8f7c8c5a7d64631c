package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"futuredecide/internal/app"
	"futuredecide/internal/config"
	"futuredecide/internal/engine"
	"futuredecide/internal/logging"
	"futuredecide/internal/storage"
	"futuredecide/internal/ui"
)

var version = "dev"

// Swapped in tests.
var (
	runTUI        = ui.Run
	readClipboard = clipboard.ReadAll
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "decide",
		Short:         "Spin a number wheel or draw tasks and punishments",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, flags, true)
			if err != nil {
				return err
			}
			defer s.close()
			s.log.Info("starting tui")
			if err := runTUI(cmd.Context(), s.svc, s.cfg, s.log); err != nil {
				s.log.Error("tui exited with error", "err", err)
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config TOML (default: platform config dir, or $DECIDE_CONFIG)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "path to the sqlite database")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newSpinCmd(flags),
		newPickCmd(flags),
		newAddCmd(flags),
		newListCmd(flags),
		newExportCmd(flags),
		newImportCmd(flags),
		newUndoCmd(flags),
		newResetCmd(flags),
		newThemeCmd(flags),
		newPathsCmd(),
	)
	return root
}

type session struct {
	cfg   config.Config
	log   *logging.Logger
	store *storage.Store
	svc   *app.Service

	// lastSaved is when the previous run wrote state; zero on a fresh database.
	lastSaved time.Time
}

func openSession(cmd *cobra.Command, flags *globalFlags, tui bool) (*session, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	configPath := flags.configPath
	if strings.TrimSpace(configPath) == "" {
		configPath = config.ResolveConfigPath()
	}
	dbDefault := config.DefaultDBName
	if paths, err := config.DefaultPaths(); err == nil {
		dbDefault = paths.DBPath
	}
	cfg, err := config.LoadOrCreate(configPath, config.Default(dbDefault))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if v := strings.TrimSpace(flags.dbPath); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(flags.logLevel); v != "" {
		cfg.Logging.Level = v
	}

	log, err := logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:    cfg.Logging.Level,
		Prefix:   "decide",
		FilePath: cfg.Logging.File,
	})
	if err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}
	if tui {
		log.SetConsoleEnabled(false)
	}
	log.Debug("configuration loaded", "config_path", configPath, "db_path", cfg.DBPath, "log_level", cfg.Logging.Level, "log_file", log.FilePath())

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error("sqlite open failed", "db_path", cfg.DBPath, "err", err)
		_ = log.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	lastSaved, err := store.LastSaved(cmd.Context())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Warn("read last save time failed", "err", err)
	}
	svc, err := app.Open(cmd.Context(), store, log, engine.NewRuntimeRand())
	if err != nil {
		_ = store.Close()
		_ = log.Close()
		return nil, err
	}
	return &session{cfg: cfg, log: log, store: store, svc: svc, lastSaved: lastSaved}, nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.log.Warn("sqlite close failed", "err", err)
	}
	_ = s.log.Close()
}

// withSession opens state for a one-shot subcommand.
func withSession(flags *globalFlags, fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, flags, false)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(cmd, args, s)
	}
}

func newSpinCmd(flags *globalFlags) *cobra.Command {
	var (
		lo, hi        int
		yes           bool
		noReplacement bool
	)
	cmd := &cobra.Command{
		Use:   "spin",
		Short: "Spin the number wheel once and print the result",
		Args:  cobra.NoArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, _ []string, s *session) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("no-replacement") {
				if _, err := s.svc.Apply(ctx, engine.SetNoReplacement{Picker: engine.PickerWheel, Enabled: noReplacement}); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
				r := s.svc.State().Wheel.Range()
				if cmd.Flags().Changed("min") {
					r.Min = lo
				}
				if cmd.Flags().Changed("max") {
					r.Max = hi
				}
				if err := setRange(ctx, s.svc, r, yes); err != nil {
					return err
				}
			}

			spin := s.svc.NewSpin()
			out, err := s.svc.Apply(ctx, engine.FinishSpin{Angle: spin.TotalRotation})
			if errors.Is(err, engine.ErrWheelExhausted) {
				return errors.New("all numbers have been used; run `decide reset wheel` to continue")
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Number)
			return err
		}),
	}
	cmd.Flags().IntVar(&lo, "min", 0, "range minimum (keeps the saved value when omitted)")
	cmd.Flags().IntVar(&hi, "max", 0, "range maximum (keeps the saved value when omitted)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept sampling for ranges of 120 numbers or more")
	cmd.Flags().BoolVar(&noReplacement, "no-replacement", false, "never repeat a number until reset")
	return cmd
}

func setRange(ctx context.Context, svc *app.Service, r engine.Range, yes bool) error {
	_, err := svc.Apply(ctx, engine.SetRange{Range: r})
	if !errors.Is(err, engine.ErrConfirmationRequired) {
		return err
	}
	if !yes {
		return fmt.Errorf("range %d-%d has %d numbers and will be sampled to %d slices; pass --yes to accept",
			r.Min, r.Max, r.Total(), engine.MaxVisible)
	}
	_, err = svc.Apply(ctx, engine.ConfirmLargeRange{Range: r})
	return err
}

func poolArg(args []string) (engine.Picker, error) {
	p, err := engine.ParsePicker(args[0])
	if err != nil {
		return "", err
	}
	if p == engine.PickerWheel {
		return "", fmt.Errorf("%w: the wheel has no item list", engine.ErrInvalidPicker)
	}
	return p, nil
}

func newPickCmd(flags *globalFlags) *cobra.Command {
	var noReplacement bool
	cmd := &cobra.Command{
		Use:       "pick <task|punishment>",
		Short:     "Draw a random task or punishment",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"task", "punishment"},
		RunE: withSession(flags, func(cmd *cobra.Command, args []string, s *session) error {
			p, err := poolArg(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if cmd.Flags().Changed("no-replacement") {
				if _, err := s.svc.Apply(ctx, engine.SetNoReplacement{Picker: p, Enabled: noReplacement}); err != nil {
					return err
				}
			}
			out, err := s.svc.Apply(ctx, engine.SelectItem{Picker: p})
			if errors.Is(err, engine.ErrPoolExhausted) {
				return fmt.Errorf("all %ss have been used; run `decide reset %s` to continue", p, p)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Item)
			return err
		}),
	}
	cmd.Flags().BoolVar(&noReplacement, "no-replacement", false, "never repeat an item until reset")
	return cmd
}

func newAddCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task|punishment> <text>",
		Short: "Append an item to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: withSession(flags, func(cmd *cobra.Command, args []string, s *session) error {
			p, err := poolArg(args)
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			out, err := s.svc.Apply(cmd.Context(), engine.AddItem{Picker: p, Text: text})
			if err != nil {
				return err
			}
			if !out.Changed {
				return fmt.Errorf("items must be 1-%d characters", engine.MaxItemLength)
			}
			return nil
		}),
	}
}

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list <wheel|task|punishment>",
		Short: "Show a picker's items and used entries",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, args []string, s *session) error {
			p, err := engine.ParsePicker(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			state := s.svc.State()
			if p == engine.PickerWheel {
				r := state.Wheel.Range()
				fmt.Fprintf(w, "range: %d-%d\n", r.Min, r.Max)
				fmt.Fprintf(w, "no_replacement: %t\n", state.Wheel.NoReplacement())
				fmt.Fprintf(w, "used: %v\n", state.Wheel.Used())
				printLastSaved(w, s.lastSaved)
				return nil
			}
			pool, err := state.Pool(p)
			if err != nil {
				return err
			}
			for _, item := range pool.Items() {
				marker := " "
				if pool.IsUsed(item) {
					marker = "x"
				}
				fmt.Fprintf(w, "[%s] %s\n", marker, item)
			}
			fmt.Fprintf(w, "no_replacement: %t\n", pool.NoReplacement())
			printLastSaved(w, s.lastSaved)
			return nil
		}),
	}
}

func printLastSaved(w io.Writer, at time.Time) {
	if at.IsZero() {
		fmt.Fprintln(w, "last_saved: never")
		return
	}
	fmt.Fprintf(w, "last_saved: %s (%s)\n", at.Local().Format(time.RFC3339), humanize.Time(at))
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <task|punishment>",
		Short: "Write a list as a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, args []string, s *session) error {
			p, err := poolArg(args)
			if err != nil {
				return err
			}
			data, err := s.svc.Export(p)
			if err != nil {
				return err
			}
			if outPath == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if outPath == "" {
				outPath = filepath.Join(s.cfg.UI.ExportDir, engine.ExportFileName(p))
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			s.log.Info("list exported", "picker", p, "path", outPath)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file ('-' for stdout, default futuredecide-<list>.json in the export dir)")
	return cmd
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	var (
		inPath       string
		useClipboard bool
	)
	cmd := &cobra.Command{
		Use:   "import <task|punishment>",
		Short: "Replace a list with a JSON array of strings",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, args []string, s *session) error {
			p, err := poolArg(args)
			if err != nil {
				return err
			}
			text, err := readImport(cmd, inPath, useClipboard)
			if err != nil {
				return err
			}
			out, err := s.svc.Apply(cmd.Context(), engine.ImportItems{Picker: p, Text: text})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d %ss\n", out.Imported, p)
			return err
		}),
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "input file ('-' for stdin)")
	cmd.Flags().BoolVar(&useClipboard, "clipboard", false, "read the JSON from the clipboard")
	cmd.MarkFlagsMutuallyExclusive("in", "clipboard")
	cmd.MarkFlagsOneRequired("in", "clipboard")
	return cmd
}

func readImport(cmd *cobra.Command, inPath string, fromClipboard bool) (string, error) {
	if fromClipboard {
		text, err := readClipboard()
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		return text, nil
	}
	if inPath == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(inPath)
	if err != nil {
		return "", fmt.Errorf("read import file: %w", err)
	}
	return string(data), nil
}

func newUndoCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <wheel|task|punishment>",
		Short: "Release the most recent pick",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, args []string, s *session) error {
			p, err := engine.ParsePicker(args[0])
			if err != nil {
				return err
			}
			var c engine.Command = engine.UndoWheel{}
			if p != engine.PickerWheel {
				c = engine.UndoItem{Picker: p}
			}
			out, err := s.svc.Apply(cmd.Context(), c)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case !out.Changed:
				_, err = fmt.Fprintln(w, "nothing to undo")
			case p == engine.PickerWheel:
				_, err = fmt.Fprintf(w, "released %d\n", out.Number)
			default:
				_, err = fmt.Fprintf(w, "released %s\n", out.Item)
			}
			return err
		}),
	}
}

func newResetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <wheel|task|punishment|all>",
		Short: "Clear a picker's used entries, or forget all saved state",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, args []string, s *session) error {
			if strings.EqualFold(strings.TrimSpace(args[0]), "all") {
				if err := s.store.ForgetDocument(cmd.Context()); err != nil {
					return err
				}
				s.log.Info("saved state cleared", "db_path", s.cfg.DBPath)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "saved state cleared; defaults apply on next start")
				return err
			}
			p, err := engine.ParsePicker(args[0])
			if err != nil {
				return err
			}
			var c engine.Command = engine.ResetWheel{}
			if p != engine.PickerWheel {
				c = engine.ResetItems{Picker: p}
			}
			_, err = s.svc.Apply(cmd.Context(), c)
			return err
		}),
	}
}

func newThemeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Cycle the color theme",
		Args:  cobra.NoArgs,
		RunE: withSession(flags, func(cmd *cobra.Command, _ []string, s *session) error {
			out, err := s.svc.Apply(cmd.Context(), engine.CycleTheme{})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Theme)
			return err
		}),
	}
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the config and database locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := config.DefaultPaths()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "config: %s\n", config.ResolveConfigPath())
			fmt.Fprintf(w, "data_dir: %s\n", paths.DataDir)
			fmt.Fprintf(w, "db: %s\n", paths.DBPath)
			return nil
		},
	}
}
