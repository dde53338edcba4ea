package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vozlytics/vozlytics/sentiment"
	"github.com/vozlytics/vozlytics/utils"
)

func analyzeRouter(classifier sentiment.Classifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := NewAnalyticsService(nil, classifier)
	router.POST("/analyze/text", svc.HandleAnalyzeText)
	return router
}

func postAnalyze(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	resp := map[string]string{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleAnalyzeText(t *testing.T) {
	router := analyzeRouter(&sentiment.FakeClassifier{Label: sentiment.LabelPositive})

	w, resp := postAnalyze(t, router, `{"text": "tuyệt vời"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "positive", resp["sentiment"])
}

func TestHandleAnalyzeTextQueryParam(t *testing.T) {
	router := analyzeRouter(&sentiment.FakeClassifier{Label: sentiment.LabelNegative})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze/text?text=qu%C3%A1+t%E1%BB%87", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"sentiment":"negative"`)
}

func TestHandleAnalyzeTextUnknownLabelFallsBackToNeutral(t *testing.T) {
	router := analyzeRouter(&sentiment.FakeClassifier{Label: "confused"})

	w, resp := postAnalyze(t, router, `{"text": "whatever"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "neutral", resp["sentiment"])
}

func TestHandleAnalyzeTextMissingText(t *testing.T) {
	router := analyzeRouter(&sentiment.FakeClassifier{Label: sentiment.LabelPositive})

	w, _ := postAnalyze(t, router, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func healthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := NewAnalyticsService(db, sentiment.NeutralClassifier{})
	router.GET("/health", svc.HandleHealth)
	return router
}

func getHealth(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	resp := map[string]string{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleHealth(t *testing.T) {
	db, _ := utils.CreateTempDB(t)

	w, resp := getHealth(t, healthRouter(db))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", resp["status"])
	require.Equal(t, "connected", resp["database"])
	require.NotEmpty(t, resp["timestamp"])
}

func TestHandleHealthStoreUnreachable(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// degraded state is reported as data, never as an error response
	w, resp := getHealth(t, healthRouter(db))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "unhealthy", resp["status"])
	require.Equal(t, "disconnected", resp["database"])
	require.NotEmpty(t, resp["error"])
	require.NotEmpty(t, resp["timestamp"])
}
