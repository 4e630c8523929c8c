// Command feedstore-setup bootstraps the feedstore database schema and
// verifies that a configured backend is reachable. It is the only process
// wiring in this repository; ingestion and reads are driven by whatever
// embeds the store.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kiwinews/feedstore/internal/config"
	"github.com/kiwinews/feedstore/internal/storage"
	"github.com/kiwinews/feedstore/internal/storage/postgres"
	"github.com/kiwinews/feedstore/internal/storage/sqlite"
)

func main() {
	verify := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--verify":
			verify = true
		case "--help", "-h":
			usage()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown flag %q\n\n", arg)
			usage()
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	store, err := openStore(cfg)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	fmt.Printf("feedstore: %s schema ready (dsn %s, namespace %s)\n",
		cfg.Storage.Engine, cfg.Storage.DSN, cfg.Feed.Namespace)

	if verify {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		newest, err := store.ListNewest(ctx)
		if err != nil {
			fatal(fmt.Errorf("verify failed: %w", err))
		}

		fmt.Printf("feedstore: verify ok, %d submissions in the current window\n", len(newest))
	}
}

// openStore constructs the backend named by the configuration.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Engine {
	case "sqlite":
		if dsn := cfg.Storage.DSN; dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return sqlite.NewStore(cfg.Storage.DSN, cfg.Feed.Namespace)
	case "postgres":
		return postgres.NewStore(cfg.Storage.DSN, cfg.Feed.Namespace)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine)
	}
}

func usage() {
	fmt.Println("usage: feedstore-setup [--verify]")
	fmt.Println()
	fmt.Println("Creates the submissions, upvotes, and comments relations for the")
	fmt.Println("configured backend. Configuration comes from FEEDSTORE_* environment")
	fmt.Println("variables and the optional YAML file named by FEEDSTORE_CONFIG.")
	fmt.Println()
	fmt.Println("  --verify   also run a windowed read against the opened store")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "feedstore-setup: %v\n", err)
	os.Exit(1)
}
