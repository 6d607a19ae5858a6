package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	projectionAPI "gd_valuation/pkg/api/projection"
	tariffAPI "gd_valuation/pkg/api/tariff"
	"gd_valuation/pkg/core/config"
	"gd_valuation/pkg/core/store"
)

func main() {
	// Load configuration (.env -> config/app.yaml -> environment)
	cfg, err := config.Load(os.Getenv("GD_CONFIG"))
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	// Tariff reference data: stored rows first, built-in table last
	src := store.NewTariffSource(context.Background(), store.SourceOptions{
		DatabaseURL: cfg.Database.URL,
		CacheDir:    cfg.Tariffs.CacheDir,
		ANEELTable:  cfg.Tariffs.ANEELTable,
	})
	defer store.Close()

	// Projection endpoints
	projectionHandler := projectionAPI.NewHandler(src, cfg.Tariffs.UseReference)
	http.HandleFunc("/api/projection", projectionHandler.HandleProjection)
	http.HandleFunc("/api/projection/export", projectionHandler.HandleExport)

	// Reference data endpoints
	tariffHandler := tariffAPI.NewHandler(src)
	http.HandleFunc("/api/distributors", tariffHandler.HandleDistributors)
	http.HandleFunc("/api/tariffs", tariffHandler.HandleTariffs)

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - POST /api/projection")
	fmt.Println("  - POST /api/projection/export?format=xlsx|html|md")
	fmt.Println("  - GET  /api/distributors")
	fmt.Println("  - GET  /api/tariffs?distributor=ID")

	if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
