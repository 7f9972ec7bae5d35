package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2"

	"github.com/skumar93/folio/api"
	"github.com/skumar93/folio/cache/redis"
	"github.com/skumar93/folio/mq/sqsmq"
	"github.com/skumar93/folio/pdf"
	"github.com/skumar93/folio/store/dynamo"
)

const (
	DynamoDBTable              = "Folio"
	SQSPortfolioPublishedQueue = "PortfolioPublishedQueue"
)

func main() {
	ctx := context.Background()
	devMode := os.Getenv("DEV_MODE") == "true"

	folioStore, err := dynamo.NewDynamoFolioStore(ctx, devMode, os.Getenv("DYNAMODB_ENDPOINT"), DynamoDBTable)
	if err != nil {
		log.Fatalf("Failed to create dynamodb store: %v", err)
	}

	publishedQueue, err := sqsmq.NewSQSMessageQueue(ctx, devMode, os.Getenv("SQS_ENDPOINT"), SQSPortfolioPublishedQueue)
	if err != nil {
		log.Fatalf("Failed to create SQS MQ: %v", err)
	}

	folioCache, err := redis.NewRedisFolioCache(ctx, devMode, os.Getenv("REDIS_ENDPOINT"))
	if err != nil {
		log.Fatalf("Failed to create redis cache: %v", err)
	}

	appOrigin := os.Getenv("APP_ORIGIN")
	if appOrigin == "" {
		appOrigin = "http://localhost:3000"
	}

	var oauthConfigs = map[string]*oauth2.Config{
		"google": {
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  appOrigin + "/oauth/callback",
		},
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("Failed to decode base64 jwtSecret: %v", err)
	}

	pdfRenderer := pdf.NewChromeRenderer(os.Getenv("CHROME_PATH"))

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	folioApi, err := api.NewFolioAPI(folioStore, publishedQueue, folioCache, pdfRenderer, oauthConfigs, jwtSecret, appOrigin, shutdownCtx)
	if err != nil {
		log.Fatalf("Failed to create folio api: %v", err)
	}

	mux := http.NewServeMux()
	folioApi.RegisterRoutes(mux, appOrigin)

	hostPort := "8080"
	if p := os.Getenv("HOST_PORT"); p != "" {
		hostPort = p
	}
	log.Printf("Starting server on host port: %s\n", hostPort)
	log.Fatal(http.ListenAndServe(":"+hostPort, mux))
}
