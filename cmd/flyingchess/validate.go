package main

import (
	"errors"
	"fmt"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/game"

	"github.com/spf13/cobra"
)

var errInvalidSetup = errors.New("setup is not valid")

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate <setup.yaml>",
		Short: "Check a game setup file",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	})
}

func runValidate(cmd *cobra.Command, args []string) error {
	setup, err := game.LoadSetup(args[0])
	if err != nil {
		return err
	}
	problems := checkSetup(setup)
	out := cmd.OutOrStdout()
	if len(problems) == 0 {
		fmt.Fprintln(out, green.Render("ok")+" "+args[0])
		return nil
	}
	for _, p := range problems {
		fmt.Fprintln(out, red.Render("error")+" "+p)
	}
	return errInvalidSetup
}

// checkSetup lists everything wrong with s.
func checkSetup(s *game.Setup) []string {
	var problems []string
	if n := len(s.Players); n < game.MinPlayers || n > game.MaxPlayers {
		problems = append(problems, fmt.Sprintf("need %d to %d players, got %d", game.MinPlayers, game.MaxPlayers, n))
	}
	if err := s.CheckNames(); err != nil {
		problems = append(problems, err.Error())
	}
	if v := game.ValidateConfig(&s.Punishment); !v.Valid {
		problems = append(problems, v.Message)
	}
	if s.Board.TrapCells > 0 && len(s.Traps) == 0 {
		problems = append(problems, boardgen.ErrEmptyTrapPool.Error())
	}
	problems = append(problems, boardgen.ValidateShape(s.Board).Errors...)
	return problems
}

// buildBoard refuses a setup whose punishment config or board shape is
// invalid, then generates a board from it.
func buildBoard(gen *boardgen.Generator, s *game.Setup) ([]game.Cell, error) {
	if v := game.ValidateConfig(&s.Punishment); !v.Valid {
		return nil, fmt.Errorf("%w: %s", errInvalidSetup, v.Message)
	}
	if v := boardgen.ValidateShape(s.Board); !v.Valid {
		return nil, fmt.Errorf("%w: invalid board shape: %v", errInvalidSetup, v.Errors)
	}
	return gen.Build(s)
}
