package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domino14/catsearch/config"
)

var (
	GitVersion string

	cfg         = config.DefaultConfig()
	profileFile *os.File

	rootCmd = &cobra.Command{
		Use:   "catsearch",
		Short: "Search for Life catalysts on a 64x64 torus",
		Long: `catsearch places still lifes around a reaction and keeps the
placements where every catalyst is disturbed and then recovers.`,
		Version:           GitVersion,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Bool(config.ConfigDebug, false, "enable debug logging")
	pf.Int(config.ConfigMaxCPChainLength, 0, "largest convolution chain to build for a target (0 for no limit)")
	pf.Int64(config.ConfigIterationBudget, 0, "stop a search after this many configurations (0 for no limit)")
	pf.Int64(config.ConfigProgressInterval, 1_000_000, "log search progress every this many configurations")
	pf.String(config.ConfigCPUProfile, "", "write a CPU profile to this file")
	pf.String(config.ConfigFile, "", "read settings from this config file")

	rootCmd.AddCommand(searchCmd, evolveCmd, chainCmd, shellCmd)
}

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := cfg.Load(cmd.Flags()); err != nil {
		return err
	}
	setupLogging(cfg.GetBool(config.ConfigDebug))
	log.Debug().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if path := cfg.GetString(config.ConfigCPUProfile); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		profileFile = f
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if profileFile != nil {
		pprof.StopCPUProfile()
		profileFile.Close()
		log.Info().Str("file", profileFile.Name()).Msg("wrote-cpu-profile")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
