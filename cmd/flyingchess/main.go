// Command flyingchess generates, checks and simulates flying chess boards
// and moves saved settings in and out of the settings database.
package main

import (
	"context"
	"os"

	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/session"
	"github.com/atang-sp/flying-chess/internal/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	seed       int64
	verbose    bool
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:          "flyingchess",
	Short:        "Flying chess board generator and tools",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Game setup YAML (defaults are used when empty)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed, 0 picks one from the clock")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "flyingchess.db", "Settings database, empty keeps settings in memory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func loadSetup() (game.Setup, error) {
	if configFile == "" {
		return game.DefaultSetup(), nil
	}
	s, err := game.LoadSetup(configFile)
	if err != nil {
		return game.Setup{}, err
	}
	return *s, nil
}

// openCache opens the settings cache named by --db. The returned func
// closes the database.
func openCache(ctx context.Context, logger *zap.Logger) (*settings.Cache, func(), error) {
	if dbPath == "" {
		return settings.NewMemory(logger), func() {}, nil
	}
	db, err := session.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	cache, err := settings.NewSQLite(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return cache, func() { _ = db.Close() }, nil
}
