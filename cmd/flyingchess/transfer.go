package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/transfer"

	"github.com/spf13/cobra"
)

var (
	exportFormat   string
	exportOut      string
	exportSections string
	exportQRSize   int

	importNoBackup bool
	importSkip     bool
)

func init() {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved settings as JSON or a QR code",
		Long: `Export the settings saved in the database. When nothing is saved yet the
--config setup is saved first. Sections are players, punishments, board,
traps and layout; layout generates a fresh board.

Examples:
  flyingchess export --sections players,punishments
  flyingchess export --format qrcode --sections players --out share.png`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or qrcode")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, default is a generated name")
	exportCmd.Flags().StringVarP(&exportSections, "sections", "s", "", "Comma separated sections, default all")
	exportCmd.Flags().IntVar(&exportQRSize, "size", 512, "QR code size in pixels")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import settings from a JSON export or a QR code image",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	importCmd.Flags().BoolVar(&importNoBackup, "no-backup", false, "Do not back up the current settings first")
	importCmd.Flags().BoolVar(&importSkip, "skip-validation", false, "Apply the file without checking it")

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore the settings saved before the last import",
		Args:  cobra.NoArgs,
		RunE:  runRestore,
	}

	rootCmd.AddCommand(exportCmd, importCmd, restoreCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	opts, err := transfer.ParseSections(exportSections)
	if err != nil {
		return err
	}
	cache, closeDB, err := openCache(ctx, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	setup, err := loadSetup()
	if err != nil {
		return err
	}
	if cache.LoadConfig(ctx) == nil {
		cache.SaveSetup(ctx, setup)
	}
	setup = cache.Setup(ctx, setup)

	var board []game.Cell
	if opts.BoardContent {
		if board, err = buildBoard(boardgen.New(game.NewSource(seed), logger), &setup); err != nil {
			return err
		}
	}

	t := transfer.New(cache, logger)
	d := t.Collect(ctx, opts, board)
	var (
		b   []byte
		ext string
	)
	switch exportFormat {
	case "json":
		b, err = transfer.EncodeJSON(d)
		ext = ".json"
	case "qrcode":
		b, err = transfer.EncodeQR(d, exportQRSize)
		ext = ".png"
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	if err != nil {
		return err
	}

	name := exportOut
	if name == "" {
		name = strings.TrimSuffix(transfer.Filename(opts, t.Now()), ".json") + ext
	}
	//nolint:gosec // exports are meant to be shared
	if err := os.WriteFile(name, b, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	stats, err := transfer.ComputeStats(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d sections, %d bytes)\n",
		green.Render("exported"), name, stats.ItemCount, len(b))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(args[0])) {
	case ".png", ".jpg", ".jpeg":
		if raw, err = transfer.DecodeQR(raw); err != nil {
			return err
		}
	}

	cache, closeDB, err := openCache(ctx, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	res, err := transfer.New(cache, logger).Import(ctx, raw, transfer.ImportOptions{
		SkipValidation: importSkip,
		BackupCurrent:  !importNoBackup,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, w := range res.Warnings {
		fmt.Fprintln(out, yellow.Render("warning")+" "+w)
	}
	if res.BackedUp {
		fmt.Fprintln(out, dim.Render("previous settings backed up, run restore to undo"))
	}
	if res.Board != nil {
		fmt.Fprint(out, renderBoard(res.Board.Board, nil, 8))
	}
	fmt.Fprintln(out, green.Render("imported")+" "+args[0])
	return nil
}

func runRestore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	cache, closeDB, err := openCache(ctx, logger)
	if err != nil {
		return err
	}
	defer closeDB()
	if err := transfer.New(cache, logger).RestoreBackup(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), green.Render("settings restored"))
	return nil
}
