// スキャンCLI: サーバを立てずに1枚の画像をパイプラインにかけ、
// output_<name> を画像と同じディレクトリへ書き出して結果を表示します。
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"plate_backend/internal/app/di"
	"plate_backend/internal/feature/media/domain/entity"
	mediausecase "plate_backend/internal/feature/media/usecase"
	platescanusecase "plate_backend/internal/feature/platescan/usecase"
	"plate_backend/internal/platform/imgedit"
	"plate_backend/internal/shared/ratelimiter"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <image>", filepath.Base(os.Args[0]))
	}
	path := os.Args[1]

	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	if kind := entity.KindOf(path); kind != entity.KindImage {
		if kind == entity.KindVideo {
			log.Fatal(mediausecase.ErrVideoUnsupported)
		}
		log.Fatal(mediausecase.ErrUnsupportedType)
	}

	imageData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	cfg := di.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute)
	visionClient, err := di.NewVisionClient(ctx, cfg, limiter)
	if err != nil {
		log.Fatal("failed to create vision client:", err)
	}
	defer visionClient.Close()

	recognizer, err := di.NewRecognizer(ctx, cfg, visionClient, limiter)
	if err != nil {
		log.Fatal("failed to create text recognizer:", err)
	}

	uc := platescanusecase.NewPlateScanUsecase(visionClient, recognizer, imgedit.NewEditor())
	result, err := uc.Scan(ctx, imageData)
	if err != nil {
		log.Fatal(err)
	}

	outPath := filepath.Join(filepath.Dir(path), mediausecase.OutputPrefix+filepath.Base(path))
	if err := os.WriteFile(outPath, result.Annotated, 0o644); err != nil {
		log.Fatal(err)
	}

	fmt.Println("annotated image:", outPath)
	if len(result.Lines) == 0 {
		fmt.Println("no text detected")
		return
	}
	for _, l := range result.Lines {
		fmt.Printf("%-20s %6.2f%%\n", l.Text, l.Confidence*100)
	}
}
