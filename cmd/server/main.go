package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vozlytics/vozlytics/sentiment"
	"github.com/vozlytics/vozlytics/server"
	"github.com/vozlytics/vozlytics/utils"
	"github.com/vozlytics/vozlytics/utils/dotenv"
	Flag "github.com/vozlytics/vozlytics/utils/flag"
	Logger "github.com/vozlytics/vozlytics/utils/log"
)

const (
	dbMaxRetries = 30
	dbRetryDelay = 2 * time.Second
)

func listenAddr() string {
	if port := os.Getenv("API_PORT"); port != "" {
		return ":" + port
	}
	return ":8000"
}

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	Flag.ParseFlags()
	Logger.InitLogger()

	db, err := utils.WaitForDBConnection(dbMaxRetries, dbRetryDelay)
	if err != nil {
		Logger.Log.Fatalf("store never became reachable: %v", err)
	}

	classifier := sentiment.NewClassifierFromEnv(context.Background())
	svc := server.NewAnalyticsService(db, classifier)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	server.RegisterRoutes(router, svc)

	Logger.Log.Info("analytics api server starts up")
	router.Run(listenAddr())
}
