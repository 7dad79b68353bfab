package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"petmatch/internal/config"
	"petmatch/internal/db"
	"petmatch/internal/repository"
	"petmatch/internal/service"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "petsim",
	Short:         "Rank and compare adoptable pets by attribute similarity",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a SQLite pets database (default $PETSIM_DB, else DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log provider calls to stderr")
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// sqlitePath resuelve la base local: flag > PETSIM_DB.
func sqlitePath() string {
	if p := strings.TrimSpace(dbPath); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv("PETSIM_DB"))
}

// openStore abre el repositorio de mascotas elegido. close libera la conexion.
func openStore(ctx context.Context) (pets repository.PetRepository, closeFn func(), err error) {
	if path := sqlitePath(); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, fmt.Errorf("database not found at %s: %w", path, err)
		}
		conn, err := db.OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSqlitePetRepository(conn), func() { conn.Close() }, nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("no pets store configured (use --db, PETSIM_DB or DATABASE_URL): %w", err)
	}
	if cfg.DBDriver == config.DriverSQLite {
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSqlitePetRepository(conn), func() { conn.Close() }, nil
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	return repository.NewPgPetRepository(pool), pool.Close, nil
}

func newSimilarPetService(ctx context.Context) (*service.SimilarPetService, func(), error) {
	pets, closeFn, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return service.NewSimilarPetService(newLogger(), pets, service.DefaultSimilarityScorer, nil), closeFn, nil
}
