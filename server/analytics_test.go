package server

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vozlytics/vozlytics/model"
	"github.com/vozlytics/vozlytics/sentiment"
	"github.com/vozlytics/vozlytics/utils"
	"github.com/vozlytics/vozlytics/utils/dotenv"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func seedMessage(t *testing.T, db *gorm.DB, idx int, threadId string, label string, analyzedAt time.Time) {
	t.Helper()
	msg := &model.Message{
		Id:             fmt.Sprintf("%032d", idx),
		ThreadId:       threadId,
		ThreadTitle:    fmt.Sprintf("thread %s", threadId),
		ThreadUrl:      fmt.Sprintf("https://voz.vn/t/thread.%s/latest", threadId),
		MessageContent: fmt.Sprintf("message %d", idx),
		AnalyzedAt:     analyzedAt,
	}
	msg.PositiveCount, msg.NegativeCount, msg.NeutralCount = sentiment.CountsForLabel(label)
	require.NoError(t, db.Create(msg).Error)
}

func TestGetMessagesPagePagination(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := NewAnalyticsService(db, sentiment.NeutralClassifier{})

	now := time.Now()
	for i := 0; i < 15; i++ {
		seedMessage(t, db, i, "111", sentiment.LabelPositive, now.Add(-time.Duration(i)*time.Minute))
	}

	page, err := svc.GetMessagesPage(10, 0, "")
	require.NoError(t, err)
	require.Len(t, page.Messages, 10)
	require.EqualValues(t, 15, page.Total)
	require.Equal(t, 10, page.Limit)

	// ordered by analyzed_at descending
	for i := 1; i < len(page.Messages); i++ {
		require.True(t, !page.Messages[i-1].AnalyzedAt.Before(page.Messages[i].AnalyzedAt))
	}

	// total stays the full matching count regardless of the page window
	page, err = svc.GetMessagesPage(10, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Messages, 5)
	require.EqualValues(t, 15, page.Total)
}

func TestGetMessagesPageThreadFilterAndLabel(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := NewAnalyticsService(db, sentiment.NeutralClassifier{})

	now := time.Now()
	seedMessage(t, db, 1, "111", sentiment.LabelPositive, now)
	seedMessage(t, db, 2, "222", sentiment.LabelNegative, now)
	seedMessage(t, db, 3, "222", sentiment.LabelNeutral, now.Add(-time.Minute))

	page, err := svc.GetMessagesPage(10, 0, "222")
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
	require.Len(t, page.Messages, 2)
	require.Equal(t, "negative", page.Messages[0].Sentiment)
	require.Equal(t, "neutral", page.Messages[1].Sentiment)
}

func TestSummaryMatchesHourlyStats(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := NewAnalyticsService(db, sentiment.NeutralClassifier{})

	now := time.Now()
	seedMessage(t, db, 1, "111", sentiment.LabelPositive, now.Add(-10*time.Minute))
	seedMessage(t, db, 2, "111", sentiment.LabelPositive, now.Add(-70*time.Minute))
	seedMessage(t, db, 3, "222", sentiment.LabelNegative, now.Add(-3*time.Hour))
	seedMessage(t, db, 4, "222", sentiment.LabelNeutral, now.Add(-5*time.Hour))
	// outside the 24h window, must not be counted
	seedMessage(t, db, 5, "333", sentiment.LabelNegative, now.Add(-30*time.Hour))

	summary, err := svc.GetSummary(24)
	require.NoError(t, err)
	require.EqualValues(t, 2, summary.TotalPositive)
	require.EqualValues(t, 1, summary.TotalNegative)
	require.EqualValues(t, 1, summary.TotalNeutral)
	require.EqualValues(t, 4, summary.TotalMessages)

	buckets, err := svc.GetHourlyStats(24)
	require.NoError(t, err)

	// newest bucket first
	for i := 1; i < len(buckets); i++ {
		require.True(t, buckets[i-1].TimeBucket.After(buckets[i].TimeBucket))
	}

	// elementwise sums across buckets equal the window summary
	var positive, negative, neutral, total int64
	for _, b := range buckets {
		positive += b.PositiveCount
		negative += b.NegativeCount
		neutral += b.NeutralCount
		total += b.TotalMessages
	}
	require.Equal(t, summary.TotalPositive, positive)
	require.Equal(t, summary.TotalNegative, negative)
	require.Equal(t, summary.TotalNeutral, neutral)
	require.Equal(t, summary.TotalMessages, total)
}

func TestClamps(t *testing.T) {
	require.Equal(t, DefaultPageSize, ClampLimit(0))
	require.Equal(t, DefaultPageSize, ClampLimit(-3))
	require.Equal(t, 1, ClampLimit(1))
	require.Equal(t, MaxPageSize, ClampLimit(100))
	require.Equal(t, MaxPageSize, ClampLimit(5000))

	require.Equal(t, 0, ClampOffset(-1))
	require.Equal(t, 7, ClampOffset(7))
}
