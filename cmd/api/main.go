package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"venture-desk/internal/auth"
	"venture-desk/internal/classify"
	"venture-desk/internal/config"
	"venture-desk/internal/db"
	apihttp "venture-desk/internal/http"
	"venture-desk/internal/llm"
	"venture-desk/internal/news"
	"venture-desk/internal/repository"
	"venture-desk/internal/sentiment"
	"venture-desk/internal/service"
	"venture-desk/internal/vc"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	dataset, err := vc.LoadDataset(cfg.VCDataPath)
	if err != nil {
		logger.Fatal("load vc dataset", zap.String("path", cfg.VCDataPath), zap.Error(err))
	}
	logger.Info("vc dataset loaded", zap.Int("records", len(dataset.Records)))

	userRepo := repository.NewPgUserRepository(pool)
	planRepo := repository.NewPgPlanRepository(pool)
	sentimentRepo := repository.NewPgSentimentRepository(pool)

	llmClient := llm.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	newsClient := news.NewHTTPClient(cfg.NewsBaseURL, cfg.NewsAPIKey)
	classifier := classify.NewHTTPClassifier(cfg.ClassifierURL, cfg.ClassifierToken)

	var verifier auth.Verifier = auth.NewJWTVerifier(cfg.TokenSecret)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			verifier = auth.NewCachedVerifier(verifier, redisClient, 5*time.Minute)
		}
		cancel()
	}

	userSvc := service.NewUserService(logger, userRepo, sentimentRepo)
	feedbackSvc := service.NewFeedbackService(logger, planRepo, llmClient)
	sentimentSvc := service.NewSentimentService(logger, newsClient, classifier, sentimentRepo)

	scheduler := sentiment.NewScheduler(logger, sentimentSvc, time.Duration(cfg.SentimentIntervalMinutes)*time.Minute)
	scheduler.Start(ctx)

	userHandler := apihttp.NewUserHandler(logger, verifier, userSvc)
	feedbackHandler := apihttp.NewFeedbackHandler(logger, feedbackSvc)
	vcHandler := apihttp.NewVCHandler(logger, dataset)
	router := apihttp.NewRouter(logger, cfg.CORSOrigin, userHandler, feedbackHandler, vcHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
