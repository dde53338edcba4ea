package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the analytics endpoints onto the router.
func RegisterRoutes(router *gin.Engine, svc *AnalyticsService) {
	router.GET("/stats/sentiment", svc.HandleSentimentStats)
	router.GET("/stats/sentiment/summary", svc.HandleSentimentSummary)
	router.GET("/messages/sentiment", svc.HandleMessages)
	router.POST("/analyze/text", svc.HandleAnalyzeText)
	router.GET("/health", svc.HandleHealth)
}

func (s *AnalyticsService) HandleSentimentStats(c *gin.Context) {
	buckets, err := s.GetHourlyStats(queryInt(c, "hours", DefaultWindowHours))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database query error: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (s *AnalyticsService) HandleSentimentSummary(c *gin.Context) {
	summary, err := s.GetSummary(queryInt(c, "hours", DefaultWindowHours))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database query error: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *AnalyticsService) HandleMessages(c *gin.Context) {
	limit := queryInt(c, "limit", DefaultPageSize)
	offset := queryInt(c, "offset", 0)
	page, err := s.GetMessagesPage(limit, offset, c.Query("thread_id"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database query error: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

type analyzeTextRequest struct {
	Text string `form:"text" json:"text"`
}

func (s *AnalyticsService) HandleAnalyzeText(c *gin.Context) {
	var req analyzeTextRequest
	// accept both a form/query param and a JSON body
	req.Text = c.Query("text")
	if req.Text == "" {
		if err := c.ShouldBind(&req); err != nil || req.Text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing text"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"sentiment": s.ClassifyAdHoc(c.Request.Context(), req.Text)})
}

// HandleHealth always answers 200; store unreachability is reported as data,
// never as a transport error.
func (s *AnalyticsService) HandleHealth(c *gin.Context) {
	timestamp := time.Now().Format(time.RFC3339)
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     err.Error(),
			"timestamp": timestamp,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": timestamp,
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
