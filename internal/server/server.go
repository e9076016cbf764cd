// Package server exposes the optimizer over a small HTTP API.
package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/digitalworkshop/cutlist/internal/engine"
	"github.com/digitalworkshop/cutlist/internal/importer"
	"github.com/digitalworkshop/cutlist/internal/model"
)

// OptimizeRequest is the JSON body for POST /api/optimize.
type OptimizeRequest struct {
	Pieces   []model.Piece     `json:"pieces" binding:"required"`
	Stocks   []model.StockUnit `json:"stocks" binding:"required"`
	Settings *model.Settings   `json:"settings"`
}

// OptimizeResponse is the JSON reply for POST /api/optimize.
type OptimizeResponse struct {
	Result       model.OptimizationResult `json:"result"`
	Utilization  float64                  `json:"utilization"`
	StockUsed    int                      `json:"stock_used"`
	PlacedCount  int                      `json:"placed_count"`
	TotalCost    float64                  `json:"total_cost"`
	PurchaseList []model.PurchaseLine     `json:"purchase_list"`
}

// ImportResponse is the JSON reply for POST /api/import.
type ImportResponse struct {
	Pieces   []model.Piece `json:"pieces"`
	Errors   []string      `json:"errors,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// Server wraps the gin engine with its dependencies.
type Server struct {
	logger *log.Logger
	router *gin.Engine
}

// New builds a Server with all routes registered.
func New(logger *log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		logger: logger,
		router: router,
	}

	router.GET("/api/health", s.handleHealth)
	router.POST("/api/optimize", s.handleOptimize)
	router.POST("/api/import", s.handleImport)
	router.GET("/api/catalog", s.handleCatalog)

	return s
}

// Run starts the HTTP server on the given address and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting HTTP server", "addr", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleOptimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	settings := model.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := settings.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid settings: %v", err)})
		return
	}

	for _, p := range req.Pieces {
		if err := p.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid piece %q: %v", p.Label, err)})
			return
		}
	}
	for _, st := range req.Stocks {
		if err := st.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid stock %q: %v", st.Label, err)})
			return
		}
	}

	opt := engine.New(settings)
	result := opt.Optimize(req.Pieces, req.Stocks)

	s.logger.Info("optimization complete",
		"pieces", result.PlacedCount(),
		"stock", result.BoardCount(),
		"unplaced", len(result.Unplaced),
		"utilization", fmt.Sprintf("%.1f%%", result.Utilization()))

	c.JSON(http.StatusOK, OptimizeResponse{
		Result:       result,
		Utilization:  result.Utilization(),
		StockUsed:    result.BoardCount(),
		PlacedCount:  result.PlacedCount(),
		TotalCost:    result.TotalCost(),
		PurchaseList: model.BuildPurchaseList(result),
	})
}

func (s *Server) handleImport(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}

	tmp, err := os.CreateTemp("", "import-*"+filepath.Ext(file.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot store upload"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot store upload"})
		return
	}

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".csv", ".txt":
		result = importer.ImportCSV(tmpPath)
	case ".xlsx", ".xls":
		result = importer.ImportExcel(tmpPath)
	case ".dxf":
		result = importer.ImportDXF(tmpPath)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type %q", filepath.Ext(file.Filename))})
		return
	}

	if len(result.Pieces) == 0 && len(result.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ImportResponse{
			Errors:   result.Errors,
			Warnings: result.Warnings,
		})
		return
	}

	s.logger.Info("import complete", "file", file.Filename, "pieces", len(result.Pieces), "errors", len(result.Errors))

	c.JSON(http.StatusOK, ImportResponse{
		Pieces:   result.Pieces,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	})
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, model.DefaultCatalog())
}
