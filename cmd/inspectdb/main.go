// Command inspectdb prints what the pipeline has stored, to eyeball a run
// without opening the SQLite file by hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/config"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/store"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	n := flag.Int("n", 5, "How many rows to show")
	flag.Parse()

	if _, err := os.Stat(*dbPath); err != nil {
		fmt.Printf("Database file not found: %s\n", *dbPath)
		fmt.Println("Run the scraper first:  go run .")
		return
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	total, err := st.Count()
	if err != nil {
		log.Fatalf("counting rows: %v", err)
	}
	fmt.Printf("Total rows in products: %d\n\n", total)

	rows, err := st.Recent(*n)
	if err != nil {
		log.Fatalf("reading rows: %v", err)
	}

	fmt.Printf("First %d rows:\n", *n)
	for _, r := range rows {
		fmt.Printf("[%d] %s\n", r.ID, r.Name)
		fmt.Printf("  Price:      %.0f\n", r.Price)
		if r.Rating != nil {
			fmt.Printf("  Rating:     %.1f\n", *r.Rating)
		} else {
			fmt.Println("  Rating:     -")
		}
		if r.ReviewsCount != nil {
			fmt.Printf("  Reviews:    %d\n", *r.ReviewsCount)
		} else {
			fmt.Println("  Reviews:    -")
		}
		fmt.Printf("  URL:        %s\n", r.URL)
		fmt.Printf("  Scraped at: %s\n", r.ScrapedAt)
		fmt.Println(strings.Repeat("-", 80))
	}
}
