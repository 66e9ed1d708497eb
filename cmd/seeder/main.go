// Seeder loads a JSON product file into the local catalog. Products
// without an id get one generated so re-runs with ids stay idempotent.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/seligo-ai/seligo/internal/catalog"
	"github.com/seligo-ai/seligo/internal/config"
	"github.com/seligo-ai/seligo/internal/database"
)

func main() {
	inputPath := flag.String("input", "./products.json", "Path to the JSON product file")
	dryRun := flag.Bool("dry-run", false, "Preview without writing to the database")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}
	cfg := config.Load()

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatal("Failed to read input file:", err)
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		log.Fatal("Failed to parse product file:", err)
	}
	log.Printf("Parsed %d products from %s", len(products), *inputPath)

	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.New().String()
		}
	}

	if *dryRun {
		for _, p := range products {
			log.Printf("[DRY RUN] %s: %s (%s) tags=%v sponsored=%v", p.ID, p.Name, p.Category, p.Tags, p.Sponsored)
		}
		return
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	repo := database.NewProductRepo(db)
	ctx := context.Background()

	inserted := 0
	for _, p := range products {
		if err := repo.Insert(ctx, p); err != nil {
			log.Printf("Failed to insert %s: %v", p.ID, err)
			continue
		}
		inserted++
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatal("Failed to count products:", err)
	}
	log.Printf("Seeded %d/%d products (catalog total: %d)", inserted, len(products), total)
}
