// Package storage is the write gateway between the crawl pipeline and the
// relational store.
package storage

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vozlytics/vozlytics/model"
	Logger "github.com/vozlytics/vozlytics/utils/log"
)

type Gateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// Push upserts one tagged message inside a transaction. On id conflict only
// the three sentiment counts and analyzed_at are rewritten; content columns
// are immutable once first observed, so re-crawling a thread never corrupts
// previously stored content. Failures roll back, get logged with the item
// id, and are returned so the caller can move on to the next item.
//
// Implements crawler.MessageSink.
func (g *Gateway) Push(msg *model.Message) error {
	err := g.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"positive_count", "negative_count", "neutral_count", "analyzed_at",
			}),
		}).Create(msg).Error
	})
	if err != nil {
		Logger.Log.Errorf("error storing message %s in database: %v", msg.Id, err)
		return errors.Wrapf(err, "fail to upsert message %s", msg.Id)
	}
	Logger.Log.Infof("stored message %s", msg.Id)
	return nil
}
