package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/vozlytics/vozlytics/crawler"
	"github.com/vozlytics/vozlytics/sentiment"
	"github.com/vozlytics/vozlytics/storage"
	"github.com/vozlytics/vozlytics/utils"
	"github.com/vozlytics/vozlytics/utils/dotenv"
	Flag "github.com/vozlytics/vozlytics/utils/flag"
	Logger "github.com/vozlytics/vozlytics/utils/log"
)

const (
	dbMaxRetries = 30
	dbRetryDelay = 2 * time.Second

	defaultCrawlIntervalSeconds = 300
)

func crawlInterval() time.Duration {
	if raw := os.Getenv("CRAWL_INTERVAL_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultCrawlIntervalSeconds * time.Second
}

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	Flag.ParseFlags()
	Logger.InitLogger()

	// the process must not start crawling against an unavailable store
	db, err := utils.WaitForDBConnection(dbMaxRetries, dbRetryDelay)
	if err != nil {
		Logger.Log.Fatalf("store never became reachable: %v", err)
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		Logger.Log.Fatalf("fail to migrate message table: %v", err)
	}

	classifier := sentiment.NewClassifierFromEnv(context.Background())
	tagger := sentiment.NewTagger(classifier, sentiment.DefaultClassifyTimeout)
	gateway := storage.NewGateway(db)
	voz := crawler.NewVozCrawler(tagger, gateway)

	interval := crawlInterval()
	Logger.Log.Infof("crawler starts up, interval %s", interval)
	for {
		if err := voz.CollectOnce(); err != nil {
			Logger.Log.Errorf("crawl pass failed: %v", err)
		}
		time.Sleep(interval)
	}
}
