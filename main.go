package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/amirulafiq/water-bill-extraction/client"
	"github.com/amirulafiq/water-bill-extraction/config"
	"github.com/amirulafiq/water-bill-extraction/handler"
	"github.com/amirulafiq/water-bill-extraction/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ws, err := service.NewWorkspace(cfg.WorkspaceDir)
	if err != nil {
		log.Fatalf("Failed to prepare workspace: %v", err)
	}

	engines := client.TesseractFactory(cfg.TesseractDataPath, cfg.OCRLanguage)
	pdfProcessor := service.NewPDFProcessor()
	rasterizer := service.NewPopplerRasterizer(cfg.RenderDPI, ws)

	billService := service.NewBillService(ws, pdfProcessor, rasterizer, engines)
	billHandler := handler.NewBillHandler(billService)

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Water Bill Extraction",
		})
	})

	// Debug rasters, crops and standardized records are browsable for
	// human audit.
	router.Static("/debug_text", ws.DebugDir)
	router.Static("/output", ws.OutputDir)

	api := router.Group("/api/v1")
	{
		bills := api.Group("/bills")
		{
			bills.POST("/extract", billHandler.ExtractBill)
		}
	}

	log.Printf("Starting Water Bill Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
