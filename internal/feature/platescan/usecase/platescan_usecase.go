// Package usecase はplatescanフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/platform/textmatch"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// SimilarityThreshold はこの値以上の類似度を持つOCR行を重複とみなす
	// しきい値です。
	SimilarityThreshold = 0.85
)

// PlateDetector は画像からナンバープレート領域を検出するリポジトリ
// インターフェースです。Goの慣例に従い、インターフェースは利用者
// （usecase）側で定義します。
type PlateDetector interface {
	// DetectPlates は画像バイト列から候補領域を検出します。
	DetectPlates(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error)
}

// TextRecognizer は切り出し画像からテキストを認識するリポジトリ
// インターフェースです。
type TextRecognizer interface {
	// RecognizeText は切り出し画像からテキスト行を認識します。
	RecognizeText(ctx context.Context, cropData []byte) ([]entity.OCRLine, error)
}

// ImageEditor はパイプラインが必要とする画像操作を抽象化します。
type ImageEditor interface {
	// DrawRegions は表示用コピーに検出枠を描画します。
	DrawRegions(img []byte, regions []entity.Region) ([]byte, error)
	// Crop は領域を切り出して返します。
	Crop(img []byte, r entity.Region) ([]byte, error)
}

// platescanUsecase は検出→切り出し→OCR→重複除去のパイプラインを提供します。
type platescanUsecase struct {
	detector   PlateDetector
	recognizer TextRecognizer
	editor     ImageEditor
}

// NewPlateScanUsecase はplatescanUsecaseの新しいインスタンスを生成します。
func NewPlateScanUsecase(d PlateDetector, r TextRecognizer, e ImageEditor) *platescanUsecase {
	return &platescanUsecase{detector: d, recognizer: r, editor: e}
}

// Scan は1枚の画像に対してパイプライン全体を実行します。
// 検出された各領域を切り出してOCRにかけ、空行と既出行に類似
// （しきい値0.85以上）する行を捨てた結果を返します。
func (u *platescanUsecase) Scan(ctx context.Context, imageData []byte) (*entity.ScanResult, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	if len(imageData) > MaxImageSize {
		return nil, fmt.Errorf("image size exceeds maximum of %d bytes", MaxImageSize)
	}

	plates, err := u.detector.DetectPlates(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("plate detection failed: %w", err)
	}

	regions := make([]entity.Region, 0, len(plates))
	for _, p := range plates {
		regions = append(regions, p.Region)
	}

	annotated, err := u.editor.DrawRegions(imageData, regions)
	if err != nil {
		return nil, fmt.Errorf("annotating image: %w", err)
	}

	// 重複判定は同一スキャン内の全領域で共有されます。
	var seen []string
	var lines []entity.OCRLine
	for _, p := range plates {
		if p.Region.Empty() {
			continue
		}
		crop, err := u.editor.Crop(imageData, p.Region)
		if err != nil {
			return nil, fmt.Errorf("cropping region %+v: %w", p.Region, err)
		}
		recognized, err := u.recognizer.RecognizeText(ctx, crop)
		if err != nil {
			return nil, fmt.Errorf("text recognition failed: %w", err)
		}
		for _, line := range recognized {
			if strings.TrimSpace(line.Text) == "" {
				continue
			}
			if textmatch.AnySimilar(line.Text, seen, SimilarityThreshold) {
				continue
			}
			seen = append(seen, line.Text)
			lines = append(lines, line)
		}
	}

	return &entity.ScanResult{
		Annotated: annotated,
		Plates:    plates,
		Lines:     lines,
	}, nil
}
