// Package tesseract はgosseract経由でローカルのTesseractを使用するOCR
// クライアントを提供します。
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/feature/platescan/usecase"
)

// charWhitelist はナンバープレートに現れうる文字の集合です。
const charWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ- "

// Recognizer はTesseractを使用してテキストを認識します。
// gosseractのクライアントはスレッドセーフではないため、呼び出しごとに
// 生成して破棄します。
type Recognizer struct {
	language string
}

// RecognizerがTextRecognizerを実装していることをコンパイル時に検証します。
var _ usecase.TextRecognizer = (*Recognizer)(nil)

// NewRecognizer はRecognizerの新しいインスタンスを生成します。
// languageが空の場合は"eng"を使用します。
func NewRecognizer(language string) *Recognizer {
	if language == "" {
		language = "eng"
	}
	return &Recognizer{language: language}
}

// RecognizeText は切り出し画像からテキスト行を認識します。
// 行単位のバウンディングボックスからテキストと信頼度（0〜1に正規化）を
// 取り出します。
func (r *Recognizer) RecognizeText(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		return nil, fmt.Errorf("setting tesseract language %q: %w", r.language, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("setting tesseract page seg mode: %w", err)
	}
	if err := client.SetVariable("tessedit_char_whitelist", charWhitelist); err != nil {
		return nil, fmt.Errorf("setting tesseract whitelist: %w", err)
	}
	if err := client.SetImageFromBytes(cropData); err != nil {
		return nil, fmt.Errorf("setting tesseract image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	lines := make([]entity.OCRLine, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		lines = append(lines, entity.OCRLine{
			Text:       text,
			Confidence: float32(b.Confidence / 100),
		})
	}
	return lines, nil
}
