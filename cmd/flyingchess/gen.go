package main

import (
	"fmt"
	"os"
	"time"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/boardsheet"
	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/transfer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	genPDF     string
	genJSON    string
	genPerRow  int
	genDetails bool
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a board",
		Long: `Generate a board from the game setup and print it.

Examples:
  flyingchess gen
  flyingchess gen --config party.yaml --seed 42 --details
  flyingchess gen --pdf board.pdf --json board.json`,
		Args: cobra.NoArgs,
		RunE: runGen,
	}
	genCmd.Flags().StringVar(&genPDF, "pdf", "", "Also write a printable PDF sheet")
	genCmd.Flags().StringVar(&genJSON, "json", "", "Also write the board as an importable JSON export")
	genCmd.Flags().IntVar(&genPerRow, "per-row", 8, "Cells per row in the terminal")
	genCmd.Flags().BoolVarP(&genDetails, "details", "d", false, "List every punishment cell")
	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	setup, err := loadSetup()
	if err != nil {
		return err
	}
	board, err := buildBoard(boardgen.New(game.NewSource(seed), logger), &setup)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderBoard(board, nil, genPerRow))
	fmt.Fprintln(out, renderStats(boardgen.Stats(board)))
	if genDetails {
		fmt.Fprintln(out)
		fmt.Fprint(out, renderPunishments(board))
	}

	if genPDF != "" {
		pdfBytes, err := boardsheet.Generate(board, game.NewPlayers(setup.Players), "Flying Chess")
		if err != nil {
			return fmt.Errorf("failed to build PDF: %w", err)
		}
		//nolint:gosec // board sheets are meant to be shared
		if err := os.WriteFile(genPDF, pdfBytes, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		logger.Info("wrote board sheet", zap.String("path", genPDF))
		fmt.Fprintln(out, green.Render("PDF written to "+genPDF))
	}

	if genJSON != "" {
		d := transfer.ExportData{
			Version:    transfer.Version,
			ExportedAt: time.Now().UTC().Format(time.RFC3339),
			GameTitle:  "Flying Chess board",
			Data:       transfer.Data{BoardContent: transfer.Snapshot(board, time.Now())},
		}
		b, err := transfer.EncodeJSON(d)
		if err != nil {
			return err
		}
		//nolint:gosec // exports are meant to be shared
		if err := os.WriteFile(genJSON, b, 0o644); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
		fmt.Fprintln(out, green.Render("JSON written to "+genJSON))
	}
	return nil
}
