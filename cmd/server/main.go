package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"plate_backend/internal/app/di"
	"plate_backend/internal/app/router"
	"plate_backend/internal/feature/media/adapters/localfs"
	mediausecase "plate_backend/internal/feature/media/usecase"
	platescanhandler "plate_backend/internal/feature/platescan/transport/handler"
	platescanusecase "plate_backend/internal/feature/platescan/usecase"
	"plate_backend/internal/platform/cache"
	"plate_backend/internal/platform/imgedit"
	infraredis "plate_backend/internal/platform/redis"
	"plate_backend/internal/shared/ratelimiter"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg := di.LoadConfig()
	ctx := context.Background()

	// Redis（任意。なければキャッシュなしで動作）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// ワーキングディレクトリ
	store, err := localfs.NewFileStore(cfg.WorkDir)
	if err != nil {
		log.Fatal(err)
	}

	// 外部API呼び出しのレートリミッタ
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute)

	// 検出・OCRバックエンド
	visionClient, err := di.NewVisionClient(ctx, cfg, limiter)
	if err != nil {
		log.Fatal("failed to create vision client:", err)
	}
	defer func() {
		if err := visionClient.Close(); err != nil {
			log.Println("[ERROR] Failed to close vision client:", err)
		}
	}()

	recognizer, err := di.NewRecognizer(ctx, cfg, visionClient, limiter)
	if err != nil {
		log.Fatal("failed to create text recognizer:", err)
	}

	// Redisキャッシュでラップ
	detector := cache.NewCachingDetector(rdb, cfg.CacheTTL, visionClient, "detect")
	cachedRecognizer := cache.NewCachingRecognizer(rdb, cfg.CacheTTL, recognizer, "ocr")

	// Usecase
	scanUC := platescanusecase.NewPlateScanUsecase(detector, cachedRecognizer, imgedit.NewEditor())
	mediaUC := mediausecase.NewMediaUsecase(store)

	// Handler
	platesH := platescanhandler.NewPlateScanHandler(scanUC, mediaUC)

	// ルータ生成
	router := router.NewRouter(platesH)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
