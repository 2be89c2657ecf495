// Command collect runs one collection pass (and optionally a synthesis)
// from the terminal, printing the settled summary as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"brandintel/app"
	"brandintel/internal/config"
	"brandintel/internal/container"
	"brandintel/internal/migration"
)

func main() {
	strategyID := flag.String("strategy", "", "strategy identifier (required)")
	brand := flag.String("brand", "", "brand name (required)")
	sector := flag.String("sector", "", "market sector")
	competitors := flag.String("competitors", "", "comma-separated competitor names")
	keywords := flag.String("keywords", "", "comma-separated listening keywords")
	country := flag.String("country", "", "two-letter country code")
	synthesize := flag.Bool("synthesize", false, "run synthesis after collection")
	flag.Parse()

	if *strategyID == "" || *brand == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatal("Failed to create container:", err)
	}
	if err := c.InitWithDatabase(db); err != nil {
		log.Fatal("Failed to initialize container:", err)
	}

	summary, err := c.Collection.RunCollection(ctx, app.CollectionRequest{
		StrategyID:  *strategyID,
		BrandName:   *brand,
		Sector:      *sector,
		Competitors: splitList(*competitors),
		Keywords:    splitList(*keywords),
		Country:     *country,
	})
	if err != nil {
		log.Fatal("Collection failed:", err)
	}
	printJSON(summary)

	if *synthesize {
		synthesis, err := c.Synthesis.Synthesize(ctx, *strategyID)
		if err != nil {
			log.Fatal("Synthesis failed:", err)
		}
		printJSON(synthesis)
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
