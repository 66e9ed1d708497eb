package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/seligo-ai/seligo/internal/api"
	"github.com/seligo-ai/seligo/internal/config"
	"github.com/seligo-ai/seligo/internal/database"
	"github.com/seligo-ai/seligo/internal/feed"
	"github.com/seligo-ai/seligo/internal/picks"
	"github.com/seligo-ai/seligo/internal/scan"
	"github.com/seligo-ai/seligo/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}

	cfg := config.Load()

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	productRepo := database.NewProductRepo(db)
	profileRepo := database.NewProfileRepo(db)

	var detector scan.Detector
	if cfg.VisionBaseURL != "" {
		detector = scan.NewVisionClient(cfg.VisionBaseURL, cfg.VisionAPIKey, cfg.VisionTimeout)
		log.Printf("Vision service enabled: %s", cfg.VisionBaseURL)
	} else {
		log.Printf("Vision service disabled (no VISION_BASE_URL); scans are text-only")
	}
	pipeline := scan.NewPipeline(detector, cfg.DetectConfidence)

	sessions := session.NewService(productRepo, profileRepo, pipeline, session.Config{
		Tuning: feed.Tuning{
			InitialPageSize: cfg.InitialPageSize,
			RefillPageSize:  cfg.RefillPageSize,
			RefillThreshold: cfg.RefillThreshold,
			MaxLoadItems:    cfg.MaxLoadItems,
			MaxLoadAttempts: cfg.MaxLoadAttempts,
		},
		PickTuning:  picks.DefaultTuning(),
		ScanTimeout: cfg.ScanTimeout,
	})

	app := &api.App{Sessions: sessions}
	router := api.NewRouter(app)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Database path: %s", cfg.DBPath)

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
