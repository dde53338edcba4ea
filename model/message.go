package model

import (
	"time"
)

/*

Message is the latest reply of a forum thread, captured by one crawl pass

Id: primary key, md5 of "<threadId>_<latestPostTime>", stable across re-crawls
ThreadId: trailing dot-delimited segment of the thread URL, used for filtering
ThreadTitle / ThreadDate: listing-page metadata, kept verbatim from the source
LatestPoster: display name of the reply author
LatestPostTime: ISO-8601 datetime attribute of the reply, kept as source text
MessageContent: reply body with quoted blocks removed, whitespace collapsed
ThreadUrl: the /latest URL the reply was fetched from

PositiveCount / NegativeCount / NeutralCount: one-hot sentiment encoding,
		exactly one of the three is 1 on every stored row. Kept as three int
		columns (instead of a label column) so hourly rollups are plain SUMs.
AnalyzedAt: wall clock time the sentiment vector was computed

Content columns are immutable after first insert; re-ingesting the same Id
only rewrites the three counts and AnalyzedAt.
*/

type Message struct {
	Id             string `gorm:"primaryKey"`
	ThreadId       string `gorm:"index"`
	ThreadTitle    string
	ThreadDate     string
	LatestPoster   string
	LatestPostTime string
	MessageContent string
	ThreadUrl      string
	PositiveCount  int
	NegativeCount  int
	NeutralCount   int
	AnalyzedAt     time.Time `gorm:"index"`
}

func (Message) TableName() string {
	return "voz_messages"
}

// Sentiment derives the label back out of the one-hot counts. Defaults to
// "neutral" when no count is set, which the write path never produces.
func (m *Message) Sentiment() string {
	switch {
	case m.PositiveCount == 1:
		return "positive"
	case m.NegativeCount == 1:
		return "negative"
	default:
		return "neutral"
	}
}
