package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github/itish2003/deepsearch/models"
	"github/itish2003/deepsearch/services"
)

// indexColumnFiles caps how many datasets feed the column hints on the index page.
const indexColumnFiles = 5

// SearchController handles the HTTP requests of the search front end. It
// depends on the SearchService for the actual work.
type SearchController struct {
	search    services.SearchService
	threshold int
	logger    *zap.Logger
}

// NewSearchController creates a controller. threshold is the fuzzy score used
// when a form asks for fuzzy matching.
func NewSearchController(search services.SearchService, threshold int, logger *zap.Logger) *SearchController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchController{
		search:    search,
		threshold: threshold,
		logger:    logger.Named("http"),
	}
}

// Index is the Gin handler for GET /. It renders the search form.
func (c *SearchController) Index(ctx *gin.Context) {
	catalog := c.search.Catalog()
	datasets := catalog.Datasets()

	seen := make(map[string]bool)
	var columns []string
	for i, ds := range datasets {
		if i == indexColumnFiles {
			break
		}
		for _, col := range ds.Columns {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)

	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"Files":   catalog.Names(),
		"Columns": columns,
	})
}

// Search is the Gin handler for POST /search. It answers with JSON unless the
// form or the Accept header asks for HTML.
func (c *SearchController) Search(ctx *gin.Context) {
	var req models.SearchRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}
	_, req.Fuzzy = ctx.GetPostForm("fuzzy")
	_, req.Debug = ctx.GetPostForm("debug")
	_, req.HTMLOutput = ctx.GetPostForm("html_output")
	returnHTML := req.HTMLOutput || strings.Contains(ctx.GetHeader("Accept"), "text/html")

	query := req.Query
	if req.ExtractPattern != "" {
		query = services.ExtractSearchPattern(query)
	}
	columns := splitColumns(req.Columns)
	searchID := uuid.NewString()
	log := c.logger.With(zap.String("search_id", searchID))

	results, err := c.search.CombinedSearch(ctx.Request.Context(), models.CombinedQuery{
		Query:     query,
		Fuzzy:     req.Fuzzy,
		MinScore:  c.threshold,
		Columns:   columns,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidDate) {
			status = http.StatusBadRequest
		}
		msg := "Error during search: " + err.Error()
		if req.Debug {
			msg += fmt.Sprintf("\nsearch_id=%s query=%q fuzzy=%t columns=%v", searchID, query, req.Fuzzy, columns)
		}
		log.Warn("search failed", zap.String("query", query), zap.Error(err))
		if returnHTML {
			ctx.HTML(status, "error.html", gin.H{"Error": msg})
			return
		}
		ctx.JSON(status, models.ErrorResponse{Error: msg})
		return
	}

	formatted := make([]models.FormattedResult, len(results))
	for i, r := range results {
		formatted[i] = models.NewFormattedResult(r)
	}
	log.Info("search completed",
		zap.String("query", query), zap.Bool("fuzzy", req.Fuzzy), zap.Int("results", len(formatted)))

	if returnHTML {
		ctx.HTML(http.StatusOK, "results.html", gin.H{
			"Query":   query,
			"Results": formatted,
		})
		return
	}

	resp := models.SearchResponse{
		Success:      true,
		SearchID:     searchID,
		Query:        query,
		ResultsCount: len(formatted),
		Results:      formatted,
	}
	if unknown := c.search.UnknownColumns(columns); len(unknown) > 0 {
		resp.ColumnSuggestions = unknown
	}
	ctx.JSON(http.StatusOK, resp)
}

// Export is the Gin handler for POST /export. It flattens the posted results
// and returns them as a CSV or JSON attachment.
func (c *SearchController) Export(ctx *gin.Context) {
	var req models.ExportRequest
	if err := ctx.ShouldBind(&req); err != nil || req.Results == "" {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: services.ErrNoResults.Error()})
		return
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = "csv"
	}

	var results []models.FormattedResult
	if err := json.Unmarshal([]byte(req.Results), &results); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Error during export: " + err.Error()})
		return
	}
	if len(results) == 0 {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: services.ErrNoResults.Error()})
		return
	}
	flat := make([]models.FlatResult, len(results))
	for i, r := range results {
		flat[i] = r.Flatten()
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	if format == "json" {
		contentType = "application/json"
		err = services.WriteJSON(&buf, flat)
	} else {
		contentType = "text/csv"
		err = services.WriteCSV(&buf, flat)
	}
	if err != nil {
		c.logger.Error("export failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Error during export: " + err.Error()})
		return
	}

	filename := fmt.Sprintf("search_results_%s.%s", time.Now().Format("20060102_150405"), format)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Cache-Control", "no-cache")
	ctx.Data(http.StatusOK, contentType, buf.Bytes())
}

// Analyze is the Gin handler for POST /analyze.
func (c *SearchController) Analyze(ctx *gin.Context) {
	var req models.FileRequest
	if err := ctx.ShouldBind(&req); err != nil || req.FileName == "" {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file specified"})
		return
	}
	analysis, err := c.search.Analyze(req.FileName)
	if err != nil {
		ctx.JSON(fileErrorStatus(err), models.ErrorResponse{Error: "Error analyzing file: " + err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, models.AnalyzeResponse{Success: true, Analysis: analysis})
}

// GetColumns is the Gin handler for POST /get_columns.
func (c *SearchController) GetColumns(ctx *gin.Context) {
	var req models.FileRequest
	if err := ctx.ShouldBind(&req); err != nil || req.FileName == "" {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file specified"})
		return
	}
	columns, err := c.search.Columns(req.FileName)
	if err != nil {
		ctx.JSON(fileErrorStatus(err), models.ErrorResponse{Error: "Error getting columns: " + err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, models.ColumnsResponse{Success: true, Columns: columns})
}

func fileErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidFilename):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrFileNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// splitColumns parses a comma separated column list. Blank input means all
// columns.
func splitColumns(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
