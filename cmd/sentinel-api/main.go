package main

import (
	"go-dq-sentinel/internal/api"
	"go-dq-sentinel/internal/store"
	"go-dq-sentinel/pkg/router"
)

// @title DQ Sentinel API
// @version 1.0
// @description Data-quality sentinel for weekly sales extracts
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Init DB
	if err := store.InitDB("sentinel.db"); err != nil {
		panic(err)
	}

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r)

	// Start server
	r.Start(":8080")
}
