// Package main provides the CLI entrypoint for tuibowl.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuibowl/internal/bowling"
	"github.com/verte-zerg/tuibowl/internal/config"
	"github.com/verte-zerg/tuibowl/internal/game"
	"github.com/verte-zerg/tuibowl/internal/lane"
	"github.com/verte-zerg/tuibowl/internal/model"
	"github.com/verte-zerg/tuibowl/internal/stats"
	"github.com/verte-zerg/tuibowl/internal/statsui"
	"github.com/verte-zerg/tuibowl/internal/store"
	"github.com/verte-zerg/tuibowl/internal/tui"
)

const (
	defaultPlayer      = "you"
	defaultSettleDelay = 5 * time.Second
	defaultResetDelay  = 1500 * time.Millisecond
	defaultCurveWindow = 10
)

// debugEnv names a file that receives session transitions while playing.
const debugEnv = "TUIBOWL_DEBUG"

var (
	playPlayer      string
	playSettleDelay time.Duration
	playResetDelay  time.Duration
	playSeed        int64
	playAutosave    bool
	playResume      bool

	statsPlayer      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuibowl",
		Short:         "TUI ten-pin bowling",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playPlayer, "player", defaultPlayer, "player name recorded with each game")
	rootCmd.Flags().DurationVar(&playSettleDelay, "settle-delay", defaultSettleDelay, "time for a rolled ball to settle")
	rootCmd.Flags().DurationVar(&playResetDelay, "reset-delay", defaultResetDelay, "time to rack a full set of pins")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "lane random seed (0 = time-based)")
	rootCmd.Flags().BoolVar(&playAutosave, "autosave", true, "save an unfinished game on quit")
	rootCmd.Flags().BoolVar(&playResume, "resume", false, "continue the saved game")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "player", &playPlayer, fileCfg.Play.Player)
	if err := applyDelayConfig(cmd, "settle-delay", &playSettleDelay, fileCfg.Play.SettleDelay); err != nil {
		return err
	}
	if err := applyDelayConfig(cmd, "reset-delay", &playResetDelay, fileCfg.Play.ResetDelay); err != nil {
		return err
	}
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Play.Seed)
	applyBoolConfig(cmd, "autosave", &playAutosave, fileCfg.Play.Autosave)

	cfg := model.Config{
		Player:      playPlayer,
		SettleDelay: playSettleDelay,
		ResetDelay:  playResetDelay,
		Seed:        playSeed,
		Autosave:    playAutosave,
	}

	savePath := config.DefaultSavePath()
	var resume *game.Snapshot
	if playResume {
		snap, err := game.ReadSaveFile(savePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no saved game at %s", savePath)
			}
			return fmt.Errorf("failed to read saved game: %w", err)
		}
		if snap.Player != "" && !cmd.Flags().Changed("player") {
			cfg.Player = snap.Player
		}
		resume = &snap
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	logf, closeLog, err := debugLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, st, lane.New(cfg.Seed), savePath, resume, logf)
	if err != nil {
		return fmt.Errorf("failed to restore game: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// debugLogger routes session logging to the file named by TUIBOWL_DEBUG. The
// logger is nil when the variable is unset.
func debugLogger() (game.Logger, func(), error) {
	path := strings.TrimSpace(os.Getenv(debugEnv))
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := tea.LogToFile(path, "tuibowl")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	closeLog := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}
	return log.Printf, closeLog, nil
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score ROLLS...",
		Short: "Score a sequence of rolls",
		Long:  "Score a sequence of knocked-down pin counts, e.g. tuibowl score 10 7 3 9 0",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScoreCmd,
	}
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	rolls, err := parseRolls(args)
	if err != nil {
		return err
	}
	ledger, err := bowling.Replay(rolls)
	if err != nil {
		return fmt.Errorf("invalid roll sequence: %w", err)
	}
	return writeScore(cmd.OutOrStdout(), ledger)
}

func parseRolls(args []string) ([]int, error) {
	var rolls []int
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' }) {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("invalid roll %q: %w", field, err)
			}
			rolls = append(rolls, n)
		}
	}
	return rolls, nil
}

func writeScore(w io.Writer, ledger *bowling.Ledger) error {
	scores := ledger.Score()
	var frames []model.FrameRecord
	for i, f := range ledger.Frames() {
		if len(f.Rolls) == 0 {
			continue
		}
		frames = append(frames, model.FrameRecord{
			Index: i,
			Rolls: f.Rolls,
			Score: scores.Frames[i].Cumulative,
		})
	}
	if err := stats.RenderFrames(w, frames); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	status := "in progress"
	if ledger.Complete() {
		status = "final"
	}
	if _, err := fmt.Fprintf(w, "\nTotal: %d (%s)\n", scores.Total, status); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
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
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse game history",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsPlayer, "player", "", "player filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Player:      statsPlayer,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDelayConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := config.ParseDelay(*value)
	if err != nil {
		return fmt.Errorf("config %s: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuibowl configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# player = %q            # Name recorded with each game
# settle-delay = %q       # Time for a rolled ball to settle
# reset-delay = %q      # Time to rack a full set of pins
# seed = 0                 # Lane random seed (0 = time-based)
# autosave = true          # Save an unfinished game on quit
`,
		defaultPlayer,
		defaultSettleDelay.String(),
		defaultResetDelay.String(),
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Player) == "" {
		return fmt.Errorf("--player must not be empty")
	}
	if cfg.SettleDelay < 0 {
		return fmt.Errorf("--settle-delay must be >= 0")
	}
	if cfg.ResetDelay < 0 {
		return fmt.Errorf("--reset-delay must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
