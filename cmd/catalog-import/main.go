// Command catalog-import converts the recommendation catalog CSV into the
// SQLite form the API can load with CATALOG_DRIVER=sqlite.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ewilliams-labs/songradar/internal/adapters/sqlite"
	"github.com/ewilliams-labs/songradar/internal/catalog"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

func main() {
	in := flag.String("in", "data/catalog.csv", "source catalog CSV")
	out := flag.String("out", "data/catalog.db", "destination SQLite file")
	flag.Parse()

	logger.Configure(logger.Config{Format: logger.FormatText, Level: logger.ParseLevel(os.Getenv("LOG_LEVEL"))})
	log := logger.New("catalog-import").Function("main")

	n, err := run(context.Background(), *in, *out)
	if err != nil {
		_ = log.Err("import failed", err, "in", *in, "out", *out)
		os.Exit(1)
	}
	log.Info("catalog imported", "entries", n, "out", *out)
}

func run(ctx context.Context, in, out string) (int, error) {
	entries, err := catalog.NewCSVSource(in).LoadCatalog(ctx)
	if err != nil {
		return 0, err
	}

	db, err := sqlite.NewAdapter(out)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", out, err)
	}
	defer db.Close()

	if err := db.SaveCatalog(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}
