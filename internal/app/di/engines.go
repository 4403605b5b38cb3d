package di

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsrekognition "github.com/aws/aws-sdk-go-v2/service/rekognition"

	"plate_backend/internal/feature/platescan/adapters/gemini"
	"plate_backend/internal/feature/platescan/adapters/rekognition"
	"plate_backend/internal/feature/platescan/adapters/tesseract"
	"plate_backend/internal/feature/platescan/adapters/vision"
	"plate_backend/internal/feature/platescan/usecase"
	"plate_backend/internal/shared/ratelimiter"
)

// NewVisionClient creates the Cloud Vision client used for plate detection
// (and for OCR when the vision engine is selected).
func NewVisionClient(ctx context.Context, cfg Config, limiter ratelimiter.RateLimiterInterface) (*vision.Client, error) {
	return vision.NewClient(ctx, cfg.DetectLabels, limiter)
}

// NewRecognizer creates the text recognizer selected by cfg.OCREngine.
// The vision engine reuses the already constructed Vision client.
func NewRecognizer(ctx context.Context, cfg Config, visionClient *vision.Client, limiter ratelimiter.RateLimiterInterface) (usecase.TextRecognizer, error) {
	switch cfg.OCREngine {
	case "vision", "":
		return visionClient, nil
	case "tesseract":
		return tesseract.NewRecognizer(cfg.TessLanguage), nil
	case "rekognition":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		return rekognition.NewRecognizer(awsrekognition.NewFromConfig(awsCfg), limiter), nil
	case "gemini":
		return gemini.NewRecognizer(ctx, cfg.GeminiModel, limiter)
	default:
		return nil, fmt.Errorf("unknown OCR engine: %s", cfg.OCREngine)
	}
}
