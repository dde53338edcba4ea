// Package server is the read-only analytics service: time-bucketed sentiment
// aggregation and paginated retrieval over stored messages, plus ad-hoc
// classification.
package server

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vozlytics/vozlytics/model"
	"github.com/vozlytics/vozlytics/sentiment"
	Logger "github.com/vozlytics/vozlytics/utils/log"
)

const (
	DefaultWindowHours = 24
	MaxWindowHours     = 24 * 7
	DefaultPageSize    = 10
	MaxPageSize        = 100
)

// HourlyBucket is one hour of aggregated sentiment, derived on demand from
// message rows. Never persisted.
type HourlyBucket struct {
	TimeBucket    time.Time `json:"time_bucket"`
	PositiveCount int64     `json:"positive_count"`
	NegativeCount int64     `json:"negative_count"`
	NeutralCount  int64     `json:"neutral_count"`
	TotalMessages int64     `json:"total_messages"`
}

// SentimentSummary is the un-bucketed rollup over a whole window.
type SentimentSummary struct {
	TotalPositive int64 `json:"total_positive"`
	TotalNegative int64 `json:"total_negative"`
	TotalNeutral  int64 `json:"total_neutral"`
	TotalMessages int64 `json:"total_messages"`
}

// MessageRow is the wire shape of one stored message, with the sentiment
// label derived back out of the one-hot counts.
type MessageRow struct {
	Id             string    `json:"id"`
	ThreadTitle    string    `json:"thread_title"`
	ThreadDate     string    `json:"thread_date"`
	MessageContent string    `json:"message_content"`
	LatestPoster   string    `json:"latest_poster"`
	LatestPostTime string    `json:"latest_post_time"`
	ThreadUrl      string    `json:"thread_url"`
	Sentiment      string    `json:"sentiment"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}

type MessagesPage struct {
	Messages []MessageRow `json:"messages"`
	Total    int64        `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}

type AnalyticsService struct {
	db         *gorm.DB
	classifier sentiment.Classifier
}

func NewAnalyticsService(db *gorm.DB, classifier sentiment.Classifier) *AnalyticsService {
	return &AnalyticsService{db: db, classifier: classifier}
}

// GetHourlyStats returns hour-truncated sentiment sums for the trailing
// window, newest bucket first.
func (s *AnalyticsService) GetHourlyStats(windowHours int) ([]HourlyBucket, error) {
	windowHours = clampWindow(windowHours)
	buckets := []HourlyBucket{}
	err := s.db.Raw(`
		SELECT DATE_TRUNC('hour', analyzed_at) AS time_bucket,
		       COALESCE(SUM(positive_count), 0) AS positive_count,
		       COALESCE(SUM(negative_count), 0) AS negative_count,
		       COALESCE(SUM(neutral_count), 0) AS neutral_count,
		       COUNT(*) AS total_messages
		FROM voz_messages
		WHERE analyzed_at >= NOW() - ? * INTERVAL '1 hour'
		GROUP BY time_bucket
		ORDER BY time_bucket DESC`, windowHours).Scan(&buckets).Error
	if err != nil {
		Logger.Log.Errorf("error fetching sentiment stats: %v", err)
		return nil, err
	}
	return buckets, nil
}

// GetSummary returns the window-wide sentiment totals without bucketing.
func (s *AnalyticsService) GetSummary(windowHours int) (*SentimentSummary, error) {
	windowHours = clampWindow(windowHours)
	var summary SentimentSummary
	err := s.db.Raw(`
		SELECT COALESCE(SUM(positive_count), 0) AS total_positive,
		       COALESCE(SUM(negative_count), 0) AS total_negative,
		       COALESCE(SUM(neutral_count), 0) AS total_neutral,
		       COUNT(*) AS total_messages
		FROM voz_messages
		WHERE analyzed_at >= NOW() - ? * INTERVAL '1 hour'`, windowHours).Scan(&summary).Error
	if err != nil {
		Logger.Log.Errorf("error fetching sentiment summary: %v", err)
		return nil, err
	}
	return &summary, nil
}

// GetMessagesPage returns one page of stored messages ordered by analyzed_at
// descending, optionally filtered by thread id. Total is the full matching
// row count under the same filter, independent of the page window.
func (s *AnalyticsService) GetMessagesPage(limit, offset int, threadId string) (*MessagesPage, error) {
	limit = ClampLimit(limit)
	offset = ClampOffset(offset)

	filtered := func() *gorm.DB {
		q := s.db.Model(&model.Message{})
		if threadId != "" {
			q = q.Where("thread_id = ?", threadId)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		Logger.Log.Errorf("error counting messages: %v", err)
		return nil, err
	}

	var rows []model.Message
	if err := filtered().Order("analyzed_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		Logger.Log.Errorf("error fetching messages: %v", err)
		return nil, err
	}

	page := &MessagesPage{
		Messages: make([]MessageRow, 0, len(rows)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for i := range rows {
		m := &rows[i]
		page.Messages = append(page.Messages, MessageRow{
			Id:             m.Id,
			ThreadTitle:    m.ThreadTitle,
			ThreadDate:     m.ThreadDate,
			MessageContent: m.MessageContent,
			LatestPoster:   m.LatestPoster,
			LatestPostTime: m.LatestPostTime,
			ThreadUrl:      m.ThreadUrl,
			Sentiment:      m.Sentiment(),
			AnalyzedAt:     m.AnalyzedAt,
		})
	}
	return page, nil
}

// ClassifyAdHoc classifies a single text on demand, independent of storage.
// Classifier faults and unknown labels fall back to neutral like the
// ingestion path.
func (s *AnalyticsService) ClassifyAdHoc(ctx context.Context, text string) string {
	label, err := s.classifier.Classify(ctx, text)
	if err != nil {
		Logger.Log.Errorf("error analyzing sentiment: %v", err)
		return sentiment.LabelNeutral
	}
	if !sentiment.IsKnownLabel(label) {
		return sentiment.LabelNeutral
	}
	return label
}

func clampWindow(hours int) int {
	if hours <= 0 {
		return DefaultWindowHours
	}
	if hours > MaxWindowHours {
		return MaxWindowHours
	}
	return hours
}

// ClampLimit bounds a page size to [1, MaxPageSize]; non-positive values get
// the default page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// ClampOffset floors an offset at 0.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
