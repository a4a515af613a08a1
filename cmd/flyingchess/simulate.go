package main

import (
	"fmt"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/game"

	"github.com/spf13/cobra"
)

var (
	simGames     int
	simMaxTurns  int
	simShowBoard bool
)

func init() {
	simCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play games with random dice and report statistics",
		Long: `Play whole games with random dice on freshly generated boards.
Every cell effect is applied as soon as it is shown.

Examples:
  flyingchess simulate -n 500
  flyingchess simulate --config party.yaml --seed 7 --show-board`,
		Args: cobra.NoArgs,
		RunE: runSimulate,
	}
	simCmd.Flags().IntVarP(&simGames, "number", "n", 100, "Number of games to play")
	simCmd.Flags().IntVar(&simMaxTurns, "max-turns", 1000, "Give up on a game after this many rolls")
	simCmd.Flags().BoolVar(&simShowBoard, "show-board", false, "Print the board of the last game")
	rootCmd.AddCommand(simCmd)
}

// simSummary aggregates simulation results.
type simSummary struct {
	Games       int
	Unfinished  int
	Wins        []int
	Turns       int
	Punishments int
	Strikes     int
	Failures    int
	Forced      int
	Effects     int
}

func summarize(results []game.SimulationResult, players int) simSummary {
	s := simSummary{Games: len(results), Wins: make([]int, players)}
	for _, r := range results {
		s.Turns += r.Turns
		s.Punishments += r.Punishments
		s.Strikes += r.Strikes
		s.Failures += r.TakeoffFailures
		s.Forced += r.ForcedTakeoffs
		s.Effects += r.EffectsApplied
		if r.Winner == nil || *r.Winner >= players {
			s.Unfinished++
			continue
		}
		s.Wins[*r.Winner]++
	}
	return s
}

func (s simSummary) avg(n int) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(n) / float64(s.Games)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if simGames <= 0 {
		return fmt.Errorf("number of games must be positive, got %d", simGames)
	}
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	setup, err := loadSetup()
	if err != nil {
		return err
	}
	if problems := checkSetup(&setup); len(problems) > 0 {
		return fmt.Errorf("%w: %v", errInvalidSetup, problems)
	}

	src := game.NewSource(seed)
	gen := boardgen.New(src, logger)
	results := make([]game.SimulationResult, 0, simGames)
	var board []game.Cell
	for i := 0; i < simGames; i++ {
		board, err = buildBoard(gen, &setup)
		if err != nil {
			return err
		}
		results = append(results, game.Simulate(src, setup, board, simMaxTurns))
	}

	out := cmd.OutOrStdout()
	if simShowBoard {
		fmt.Fprint(out, renderBoard(board, nil, 8))
		fmt.Fprintln(out)
	}
	s := summarize(results, len(setup.Players))
	fmt.Fprintf(out, "%s %d\n", bold.Render("games"), s.Games)
	fmt.Fprintf(out, "turns per game        %6.1f\n", s.avg(s.Turns))
	fmt.Fprintf(out, "punishments per game  %6.1f\n", s.avg(s.Punishments))
	fmt.Fprintf(out, "strikes per game      %6.1f\n", s.avg(s.Strikes))
	fmt.Fprintf(out, "failed takeoffs       %6.1f\n", s.avg(s.Failures))
	fmt.Fprintf(out, "forced takeoffs       %6.1f\n", s.avg(s.Forced))
	fmt.Fprintf(out, "effects applied       %6.1f\n", s.avg(s.Effects))
	for i, name := range setup.Players {
		fmt.Fprintf(out, "%-20s  %s\n", name, green.Render(fmt.Sprintf("%d wins", s.Wins[i])))
	}
	if s.Unfinished > 0 {
		fmt.Fprintln(out, yellow.Render(fmt.Sprintf("%d games hit the turn limit", s.Unfinished)))
	}
	return nil
}
