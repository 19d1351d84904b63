package main

import (
	"flag"
	"os"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/config"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/etl"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/logger"
)

// go run . -query="кроссовки мужские" -limit=1000
func main() {
	logger.SetLevel(os.Getenv("LOG_LEVEL"))

	cfg := config.Load()

	query := flag.String("query", cfg.Query, "Search query to scrape")
	limit := flag.Int("limit", cfg.Limit, "Target number of product cards")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	cfg.Query = *query
	cfg.Limit = *limit
	cfg.Scroll.Target = *limit
	cfg.DBPath = *dbPath

	res := etl.New(cfg).Run()

	logger.Infof("main", "done: %d extracted, %d inserted, %d card errors, %.1fs",
		res.Extracted, res.Inserted, res.Errors, res.Duration.Seconds())
}
