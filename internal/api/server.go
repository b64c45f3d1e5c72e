package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"unitestats/app"
	"unitestats/domain/catalog"
	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/internal"
	apperrors "unitestats/internal/errors"
	"unitestats/ports"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server exposes the stats pipeline and the stored-aggregate backend over HTTP
type Server struct {
	router  *gin.Engine
	stats   *app.StatsService
	period  *app.PeriodStatsService
	catalog ports.CatalogProvider
	events  *EventHub
	origins []string
	logger  *internal.Logger
	httpSrv *http.Server
}

// Options configures NewServer. Period may be nil when no database is
// configured; /stats then answers 503.
type Options struct {
	Stats       *app.StatsService
	Period      *app.PeriodStatsService
	Catalog     ports.CatalogProvider
	Events      *EventHub
	CORSOrigins []string
	Logger      *internal.Logger
}

// NewServer builds the router and registers every route
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = internal.NopLogger()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		router:  gin.Default(),
		stats:   opts.Stats,
		period:  opts.Period,
		catalog: opts.Catalog,
		events:  opts.Events,
		origins: origins,
		logger:  logger.With("API"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/stats", s.handleBackendStats)

	v1 := s.router.Group("/api/v1")
	v1.GET("/stats", s.handleQuery)
	v1.GET("/window", s.handleWindow)
	v1.GET("/catalog", s.handleCatalog)
	if s.events != nil {
		v1.GET("/events", s.events.Handle)
	}
}

// Handler returns the router wrapped in the HTTP middleware stack:
// client IP from proxy headers, CORS, then response compression
func (s *Server) Handler() http.Handler {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	return middleware.RealIP(corsHandler(middleware.Compress(5)(s.router)))
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening on %s", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.events != nil {
		s.events.Close()
	}
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"catalog_loaded": s.catalogLoaded(),
		"backend":        s.period != nil,
	})
}

func (s *Server) catalogLoaded() bool {
	if l, ok := s.catalog.(interface{ Loaded() bool }); ok {
		return l.Loaded()
	}
	return false
}

// handleBackendStats serves merged daily aggregates in the stats source wire format
func (s *Server) handleBackendStats(c *gin.Context) {
	if s.period == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stored aggregates are not configured"})
		return
	}

	resp, err := s.period.Stats(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleQuery runs the enrichment pipeline
func (s *Server) handleQuery(c *gin.Context) {
	r, err := s.rangeParams(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	category, err := catalog.ParseCategory(c.Query("category"))
	if err != nil {
		s.respondError(c, apperrors.ValidationError("invalid category", err))
		return
	}

	result, err := s.stats.Query(c.Request.Context(), app.QueryRequest{Range: r, Category: category})
	if err != nil {
		s.respondError(c, err)
		return
	}

	if s.events != nil {
		s.events.Publish(QueryEvent{
			QueryID:     result.QueryID.String(),
			Range:       result.Range,
			Category:    result.Category,
			Records:     len(result.Records),
			Diagnostics: len(result.Diagnostics),
		})
	}
	c.JSON(http.StatusOK, result)
}

// rangeParams reads start_date/end_date. Missing bounds stay zero and are
// filled from the default range by the query.
func (s *Server) rangeParams(c *gin.Context) (daterange.Range, error) {
	var r daterange.Range
	if v := c.Query("start_date"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return daterange.Range{}, apperrors.ValidationError("invalid start_date", err)
		}
		r.Start = d
	}
	if v := c.Query("end_date"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return daterange.Range{}, apperrors.ValidationError("invalid end_date", err)
		}
		r.End = d
	}
	return r, nil
}

func (s *Server) handleWindow(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats.Window())
}

// handleCatalog lists the memoized catalog sorted by id
func (s *Server) handleCatalog(c *gin.Context) {
	cat, err := s.catalog.Catalog(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	records := make([]catalog.Record, 0, len(cat))
	for _, r := range cat {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

func (s *Server) respondError(c *gin.Context, err error) {
	if !apperrors.IsAppError(err) && core.IsValidationError(err) {
		err = apperrors.ValidationError("invalid request", err)
	}
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
