// Package rekognition はAWS Rekognitionを使用するOCRクライアントを提供します。
package rekognition

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/feature/platescan/usecase"
	"plate_backend/internal/shared/ratelimiter"
)

// Recognizer はRekognition DetectTextを使用してテキストを認識します。
type Recognizer struct {
	client  *rekognition.Client
	limiter ratelimiter.RateLimiterInterface
}

// RecognizerがTextRecognizerを実装していることをコンパイル時に検証します。
var _ usecase.TextRecognizer = (*Recognizer)(nil)

// NewRecognizer は設定済みのRekognitionクライアントからRecognizerの新しい
// インスタンスを生成します。
func NewRecognizer(client *rekognition.Client, limiter ratelimiter.RateLimiterInterface) *Recognizer {
	return &Recognizer{client: client, limiter: limiter}
}

// RecognizeText は切り出し画像からLINE種別のテキスト検出結果を返します。
// Rekognitionの信頼度は0〜100のため0〜1に正規化します。
func (r *Recognizer) RecognizeText(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
	if r.limiter != nil {
		r.limiter.WaitIfNeeded()
	}

	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: cropData},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition DetectText failed: %w", err)
	}

	lines := make([]entity.OCRLine, 0, len(out.TextDetections))
	for _, td := range out.TextDetections {
		if td.Type != types.TextTypesLine || td.DetectedText == nil {
			continue
		}
		text := strings.TrimSpace(*td.DetectedText)
		if text == "" {
			continue
		}
		var conf float32
		if td.Confidence != nil {
			conf = *td.Confidence / 100
		}
		lines = append(lines, entity.OCRLine{Text: text, Confidence: conf})
	}
	return lines, nil
}
