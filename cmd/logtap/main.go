package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"logtap/internal/runner"
	"logtap/pkg/sinks"
	"logtap/pkg/streamlog"
)

var (
	logfilePath string
	appName     string
	stdoutLevel string
	stderrLevel string
	usePTY      bool
	withStats   bool
	workDir     string
)

var rootCmd = &cobra.Command{
	Use:   "logtap",
	Short: "logtap - route command output to a console and a log file",
	Long: `logtap runs a command with its output streams intercepted and routes every
line, at a severity fixed per stream, to an interactive console and a
persistent log file.`,
}

// exitCode of the captured command, propagated by main
var exitCode int

var runCmd = &cobra.Command{
	Use:           "run [flags] -- cmd [args...]",
	Short:         "Run a command with captured output",
	Long:          `Run a command with stdout and stderr intercepted. Each output line is written to the console with level-specific decoration and to the log file as plain text. The command's exit code becomes logtap's exit code.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		outLevel, err := streamlog.ParseLevel(stdoutLevel)
		if err != nil {
			return err
		}
		errLevel, err := streamlog.ParseLevel(stderrLevel)
		if err != nil {
			return err
		}

		console := sinks.NewConsole(os.Stdout, appName)
		logfile, err := sinks.NewLogFile(logfilePath, appName)
		if err != nil {
			return err
		}
		defer func() { _ = logfile.Close() }()

		// Our own diagnostics go through a debug-level session on the
		// stdlib logger, so they land in both sinks alongside the
		// command's output
		log.SetFlags(0)
		diag := streamlog.StdLogger{L: log.Default()}
		session := streamlog.New(diag, streamlog.LevelDebug, console, logfile)
		diag.SetOutput(streamlog.MessageWriter{S: session})
		defer session.Close()

		result, err := runner.Run(runner.Options{
			Command:     args,
			Dir:         workDir,
			UsePTY:      usePTY,
			Stats:       withStats,
			StdoutLevel: outLevel,
			StderrLevel: errLevel,
		}, console, logfile)
		if err != nil {
			return err
		}

		if result.Stats != nil {
			log.Printf("command finished: exit=%d duration=%s peak_rss=%.1fMB max_cpu=%.1f%%",
				result.ExitCode, result.Duration.Round(time.Millisecond),
				result.Stats.PeakRSSMB, result.Stats.MaxCPU)
		} else {
			log.Printf("command finished: exit=%d duration=%s",
				result.ExitCode, result.Duration.Round(time.Millisecond))
		}

		exitCode = result.ExitCode
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&logfilePath, "logfile", "l", "logtap.log", "Path of the persistent log file")
	runCmd.Flags().StringVar(&appName, "app", "logtap", "Application name used as the record prefix in both sinks")
	runCmd.Flags().StringVar(&stdoutLevel, "stdout-level", "info", "Severity bound to the command's stdout (debug, info, error)")
	runCmd.Flags().StringVar(&stderrLevel, "stderr-level", "error", "Severity bound to the command's stderr (debug, info, error)")
	runCmd.Flags().BoolVar(&usePTY, "pty", false, "Run the command in a pseudo-terminal (merges stdout and stderr)")
	runCmd.Flags().BoolVar(&withStats, "stats", false, "Sample the command's CPU and memory usage while it runs")
	runCmd.Flags().StringVar(&workDir, "dir", "", "Working directory for the command")

	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
