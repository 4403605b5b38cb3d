// Package gemini はGoogle Gemini APIを使用するOCRクライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/feature/platescan/usecase"
	"plate_backend/internal/shared/ratelimiter"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// ocrPrompt は切り出し画像の読み取り指示です。
	ocrPrompt = "Read the text in this license plate image. Return only the text, one line per text line, with no explanation."
	// lineConfidence はGeminiの応答に付与する信頼度です。APIは信頼度を
	// 返さないため固定値を使用します。
	lineConfidence = 1.0
)

// Recognizer はGemini APIのマルチモーダル入力でテキストを認識します。
type Recognizer struct {
	client  *genai.Client
	model   string
	limiter ratelimiter.RateLimiterInterface
}

// RecognizerがTextRecognizerを実装していることをコンパイル時に検証します。
var _ usecase.TextRecognizer = (*Recognizer)(nil)

// NewRecognizer はADCを使用してRecognizerの新しいインスタンスを生成します。
// modelが空の場合はDefaultModelを使用します。
func NewRecognizer(ctx context.Context, model string, limiter ratelimiter.RateLimiterInterface) (*Recognizer, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Recognizer{client: client, model: model, limiter: limiter}, nil
}

// RecognizeText は切り出し画像を添付したプロンプトでテキストを読み取ります。
func (r *Recognizer) RecognizeText(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
	if r.limiter != nil {
		r.limiter.WaitIfNeeded()
	}

	parts := []*genai.Part{
		genai.NewPartFromText(ocrPrompt),
		genai.NewPartFromBytes(cropData, "image/png"),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	var lines []entity.OCRLine
	for _, raw := range strings.Split(resp.Text(), "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		lines = append(lines, entity.OCRLine{Text: text, Confidence: lineConfidence})
	}
	return lines, nil
}
