package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-dq-sentinel/docs"
	"go-dq-sentinel/internal/api/handler"
	"go-dq-sentinel/pkg/router"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/runs", handler.CreateRun)
	r.GET("/api/v1/runs", handler.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/reports", handler.GetRunReports)
	r.GET("/api/v1/runs/*/errors", handler.GetRunErrors)
	r.GET("/api/v1/runs/*/summary", handler.GetRunSummary)
	// Generic run routes last
	r.GET("/api/v1/runs/*", handler.GetRun)
	r.DELETE("/api/v1/runs/*", handler.DeleteRun)

	r.GET("/api/v1/download/*", handler.DownloadArtifact)

	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)
}
