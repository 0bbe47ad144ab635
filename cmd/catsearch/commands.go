package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domino14/catsearch/board"
	"github.com/domino14/catsearch/config"
	"github.com/domino14/catsearch/cpchain"
	"github.com/domino14/catsearch/search"
	"github.com/domino14/catsearch/shell"
)

var (
	searchCmd = &cobra.Command{
		Use:   "search <params.yaml>",
		Short: "Run a catalyst search and print the result categories",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}

	evolveCmd = &cobra.Command{
		Use:   "evolve <rle>",
		Short: "Run a pattern forward and print the final board",
		Args:  cobra.ExactArgs(1),
		RunE:  runEvolve,
	}

	chainCmd = &cobra.Command{
		Use:   "chain <rle>",
		Short: "Print the convolution chain for a pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  runChain,
	}

	shellCmd = &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive workbench",
		Args:  cobra.NoArgs,
		Run:   runShell,
	}

	maxResults int
	gens       int
)

func init() {
	searchCmd.Flags().IntVar(&maxResults, "max-results", 0, "stop after this many results, overriding the parameter file")
	evolveCmd.Flags().IntVarP(&gens, "gens", "g", 1, "generations to run")
}

func runSearch(cmd *cobra.Command, args []string) error {
	params, err := search.LoadParams(args[0])
	if err != nil {
		return err
	}
	if maxResults > 0 {
		params.MaxResults = maxResults
	}
	s, err := search.NewSearcher(params, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	report, err := s.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Summary())
	return nil
}

func runEvolve(cmd *cobra.Command, args []string) error {
	if gens < 0 {
		return errors.New("gens must not be negative")
	}
	b, err := board.ParseRLE(args[0])
	if err != nil {
		return err
	}
	b.Evolve(gens)
	fmt.Fprint(cmd.OutOrStdout(), b.ToDisplayText())
	fmt.Fprintf(cmd.OutOrStdout(), "gen %d, pop %d\n%s\n", b.Gen(), b.Pop(), b.ToRLE())
	return nil
}

func runChain(cmd *cobra.Command, args []string) error {
	b, err := board.ParseRLE(args[0])
	if err != nil {
		return err
	}
	if b.IsEmpty() {
		return errors.New("pattern is empty")
	}
	c := cpchain.Compute(&b, cfg.GetInt(config.ConfigMaxCPChainLength))
	fmt.Fprintf(cmd.OutOrStdout(), "%d steps\n%s\n", len(c.Steps), c.String())
	return nil
}

func runShell(cmd *cobra.Command, args []string) {
	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(cfg)
	go sc.Loop(sig)
	<-idleConnsClosed
}
