// Package main provides the CLI entrypoint for facescan.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/facescan/internal/config"
	"github.com/verte-zerg/facescan/internal/device"
	"github.com/verte-zerg/facescan/internal/logutils"
	"github.com/verte-zerg/facescan/internal/model"
	"github.com/verte-zerg/facescan/internal/scoring"
	"github.com/verte-zerg/facescan/internal/session"
	"github.com/verte-zerg/facescan/internal/stats"
	"github.com/verte-zerg/facescan/internal/timeline"
	"github.com/verte-zerg/facescan/internal/tui"
)

const (
	defaultLogLevel = "info"
	defaultRuns     = 10000
	cameraOff       = "none"
)

var (
	configPath string

	scanSeed     int64
	scanCamera   string
	scanSound    bool
	scanLogLevel string
	scanLogFile  string

	simulateRuns int
	simulateSeed int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "facescan",
		Short:         "Facial attractiveness scanner",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runScanCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.Flags().Int64Var(&scanSeed, "seed", 0, "random seed (0 seeds from the clock)")
	rootCmd.Flags().StringVar(&scanCamera, "camera", device.DefaultCameraPath, "camera device, or \"none\"")
	rootCmd.Flags().BoolVar(&scanSound, "sound", true, "ring the terminal bell when a scan starts")
	rootCmd.Flags().StringVar(&scanLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error, disabled)")
	rootCmd.Flags().StringVar(&scanLogFile, "log-file", config.DefaultLogPath(), "log file path (empty discards logs)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCommentsCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

func runScanCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyInt64Config(cmd, "seed", &scanSeed, fileCfg.Scanner.Seed)
	applyStringConfig(cmd, "camera", &scanCamera, fileCfg.Scanner.Camera)
	applyBoolConfig(cmd, "sound", &scanSound, fileCfg.Scanner.Sound)
	applyStringConfig(cmd, "log-level", &scanLogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &scanLogFile, fileCfg.Log.File)

	table, err := fileCfg.CommentTable()
	if err != nil {
		return err
	}

	logger, closeLog, err := logutils.New(scanLogLevel, scanLogFile)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()
	log.Logger = logger

	tl := timeline.New(nil)
	ctrl := session.New(tl, session.Options{
		Generator: scoring.New(scoring.NewSource(scanSeed), table),
		Video:     videoSource(scanCamera),
		Effect:    scanEffect(scanSound, os.Stderr),
		Logger:    &logger,
	})

	logger.Info().Int64("seed", scanSeed).Str("camera", scanCamera).Msg("starting scanner")
	program := tea.NewProgram(tui.NewModel(ctrl, tl), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func videoSource(camera string) device.VideoSource {
	camera = strings.TrimSpace(camera)
	if camera == "" || strings.EqualFold(camera, cameraOff) {
		return device.Unavailable{}
	}
	return device.V4L{Path: camera}
}

func scanEffect(sound bool, w io.Writer) device.ScanEffect {
	if !sound {
		return device.Silent{}
	}
	return device.Bell{W: w}
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
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments",
		Short: "Print the comment table",
		Args:  cobra.NoArgs,
		RunE:  runCommentsCmd,
	}
}

func runCommentsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	table, err := fileCfg.CommentTable()
	if err != nil {
		return err
	}
	if err := stats.RenderCommentTable(cmd.OutOrStdout(), table); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run sessions on a virtual clock and show the score histogram",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().IntVar(&simulateRuns, "runs", defaultRuns, "number of sessions")
	cmd.Flags().Int64Var(&simulateSeed, "seed", 0, "random seed (0 seeds from the clock)")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	if simulateRuns <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyInt64Config(cmd, "seed", &simulateSeed, fileCfg.Scanner.Seed)
	table, err := fileCfg.CommentTable()
	if err != nil {
		return err
	}

	gen := scoring.New(scoring.NewSource(simulateSeed), table)
	hist, perSession := simulate(gen, simulateRuns)

	out := cmd.OutOrStdout()
	if err := stats.RenderHistogram(out, hist, stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Simulated %s sessions, %s from start to result each\n",
		humanize.Comma(int64(simulateRuns)), perSession); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// simulate drives runs complete sessions on a virtual clock, submitting an
// empty profile each time. It returns the score histogram and the longest
// simulated time from start to result.
func simulate(gen *scoring.Generator, runs int) (*stats.Histogram, time.Duration) {
	clock := timeline.NewVirtual(time.Unix(0, 0))
	nop := zerolog.Nop()
	ctrl := session.New(clock, session.Options{Generator: gen, Logger: &nop})
	timings := model.DefaultTimings()

	hist := &stats.Histogram{}
	var started time.Time
	var longest time.Duration
	ctrl.Subscribe(func(ev session.Event) {
		res, ok := ev.(session.ResultReady)
		if !ok {
			return
		}
		hist.Add(res.Result)
		if d := clock.Now().Sub(started); d > longest {
			longest = d
		}
	})

	countdown := timings.CountdownTick * time.Duration(timings.CountdownFrom)
	for i := 0; i < runs; i++ {
		started = clock.Now()
		ctrl.RequestStart()
		clock.Advance(timings.Scan + timings.Processing)
		ctrl.SubmitProfile(model.UserProfile{})
		clock.Advance(timings.Finalizing)
		ctrl.RequestReset()
		clock.Advance(countdown)
	}
	return hist, longest
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# facescan configuration
# Uncomment a value to enable it. CLI flags override config values.

[scanner]
# seed = 0                # Random seed, 0 seeds from the clock
# camera = %q   # Camera device, or "none"
# sound = true            # Ring the terminal bell when a scan starts

[log]
# level = %q          # debug, info, warn, error, disabled
# file = %q

# Override the comments for any score. Keys are "1" to "10".
# [comments]
# "10" = ["ERROR: FACE TOO PERFECT FOR ANALYSIS"]
`,
		device.DefaultCameraPath,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}
