// Package dashboard serves a small read-only web dashboard on top of the
// EgressWatch API. It renders the latest run summary and proxies the list
// endpoints for the dashboard frontend.
package dashboard

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egresswatch/egresswatch/pkg/client"
)

// Server wraps the gin engine and the API client it reads from
type Server struct {
	api    *client.Client
	engine *gin.Engine
}

// New builds the dashboard server against the given API client
func New(api *client.Client) *Server {
	s := &Server{api: api}

	engine := gin.Default()
	engine.SetHTMLTemplate(template.Must(template.New("index").Parse(indexTemplate)))

	engine.GET("/", s.index)
	engine.GET("/api/summary", s.summary)
	engine.GET("/api/runs", s.runs)
	engine.GET("/api/trends", s.trends)
	engine.GET("/api/costs", s.costs)
	engine.GET("/api/anomalies", s.anomalies)
	engine.GET("/api/recommendations", s.recommendations)

	s.engine = engine
	return s
}

// Run starts the dashboard HTTP server
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the underlying engine, used by tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) index(c *gin.Context) {
	summary, err := s.api.GetSummary(c.Request.Context())
	if err != nil {
		c.String(http.StatusBadGateway, "API unreachable: %v", err)
		return
	}
	c.HTML(http.StatusOK, "index", summary)
}

func (s *Server) summary(c *gin.Context) {
	summary, err := s.api.GetSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) runs(c *gin.Context) {
	page, err := s.api.Runs().List(c.Request.Context(), listOptions(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) trends(c *gin.Context) {
	page, err := s.api.Trends().List(c.Request.Context(), &client.TrendListOptions{
		ListOptions: *listOptions(c),
		RunID:       c.Query("run_id"),
		Direction:   c.Query("direction"),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) costs(c *gin.Context) {
	page, err := s.api.Costs().List(c.Request.Context(), &client.CostListOptions{
		ListOptions: *listOptions(c),
		RunID:       c.Query("run_id"),
		Status:      c.Query("status"),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) anomalies(c *gin.Context) {
	page, err := s.api.Anomalies().List(c.Request.Context(), &client.AnomalyListOptions{
		ListOptions: *listOptions(c),
		RunID:       c.Query("run_id"),
		Severity:    c.Query("severity"),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) recommendations(c *gin.Context) {
	page, err := s.api.Recommendations().List(c.Request.Context(), &client.RecommendationListOptions{
		ListOptions: *listOptions(c),
		RunID:       c.Query("run_id"),
		Category:    c.Query("category"),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func listOptions(c *gin.Context) *client.ListOptions {
	opts := &client.ListOptions{}
	if v, err := intQuery(c, "page"); err == nil {
		opts.Page = v
	}
	if v, err := intQuery(c, "page_size"); err == nil {
		opts.PageSize = v
	}
	return opts
}
