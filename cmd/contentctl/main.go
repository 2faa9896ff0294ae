package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tastcoffee/contentops/internal/localstate"
	"github.com/tastcoffee/contentops/internal/platform/logger"
	"github.com/tastcoffee/contentops/internal/store"
	"github.com/tastcoffee/contentops/internal/store/postgres"
	"github.com/tastcoffee/contentops/internal/store/sqlite"
)

var (
	driverFlag string
	dsnFlag    string
	dbFlag     string
	apiFlag    string

	rootCmd = &cobra.Command{
		Use:   "contentctl",
		Short: "CLI for the tāst content pipeline",
	}
)

func main() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "sqlite", "Store driver (sqlite, postgres)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Postgres DSN (required with --driver postgres)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database path (defaults to the local data dir)")
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Content service base URL (caption command only)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore connects the CLI directly to the collection store selected by the
// persistent flags.
func openStore(ctx context.Context, log zerolog.Logger) (store.Store, error) {
	switch driverFlag {
	case "postgres":
		if dsnFlag == "" {
			return nil, fmt.Errorf("--dsn required with --driver postgres")
		}
		return postgres.New(ctx, dsnFlag, log)
	case "sqlite":
		path := dbFlag
		if path == "" {
			var err error
			path, err = localstate.DBPath()
			if err != nil {
				return nil, err
			}
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return sqlite.New(db)
	default:
		return nil, fmt.Errorf("unknown driver %q", driverFlag)
	}
}

// withStore runs fn against an open store and closes it afterwards.
func withStore(fn func(ctx context.Context, st store.Store, log zerolog.Logger) error) error {
	log := logger.New("contentctl")
	ctx := context.Background()
	st, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(ctx, st, log)
}
