package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/feature/platescan/usecase"
)

// ErrBackend はモックと期待値の間で共有されるセンチネルエラーです。
var ErrBackend = errors.New("backend error")

// mockPlateDetector はPlateDetectorインターフェースのモック実装です。
type mockPlateDetector struct {
	DetectPlatesFunc  func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error)
	DetectPlatesCalls int
}

func (m *mockPlateDetector) DetectPlates(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
	m.DetectPlatesCalls++
	if m.DetectPlatesFunc != nil {
		return m.DetectPlatesFunc(ctx, imageData)
	}
	return nil, errors.New("DetectPlatesFunc is not implemented")
}

// mockTextRecognizer はTextRecognizerインターフェースのモック実装です。
type mockTextRecognizer struct {
	RecognizeTextFunc  func(ctx context.Context, cropData []byte) ([]entity.OCRLine, error)
	RecognizeTextCalls int
}

func (m *mockTextRecognizer) RecognizeText(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
	m.RecognizeTextCalls++
	if m.RecognizeTextFunc != nil {
		return m.RecognizeTextFunc(ctx, cropData)
	}
	return nil, errors.New("RecognizeTextFunc is not implemented")
}

// mockImageEditor はImageEditorインターフェースのモック実装です。
// Cropは領域を識別できるよう座標を埋め込んだバイト列を返します。
type mockImageEditor struct {
	DrawRegionsFunc func(img []byte, regions []entity.Region) ([]byte, error)
	CropFunc        func(img []byte, r entity.Region) ([]byte, error)
}

func (m *mockImageEditor) DrawRegions(img []byte, regions []entity.Region) ([]byte, error) {
	if m.DrawRegionsFunc != nil {
		return m.DrawRegionsFunc(img, regions)
	}
	return []byte("annotated"), nil
}

func (m *mockImageEditor) Crop(img []byte, r entity.Region) ([]byte, error) {
	if m.CropFunc != nil {
		return m.CropFunc(img, r)
	}
	return []byte{byte(r.X1), byte(r.Y1), byte(r.X2), byte(r.Y2)}, nil
}

func TestPlateScanUsecase_Scan(t *testing.T) {
	ctx := context.Background()

	regionA := entity.Region{X1: 10, Y1: 10, X2: 50, Y2: 30}
	regionB := entity.Region{X1: 60, Y1: 10, X2: 100, Y2: 30}

	testCases := []struct {
		name          string
		imageData     []byte
		detectFunc    func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error)
		recognizeFunc func(ctx context.Context, cropData []byte) ([]entity.OCRLine, error)
		expectedLines []entity.OCRLine
		expectedErr   string
	}{
		{
			name:      "success: near-duplicate line from second region is dropped",
			imageData: []byte("fake-image-data"),
			detectFunc: func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
				return []entity.DetectedPlate{
					{Region: regionA, Confidence: 0.95},
					{Region: regionB, Confidence: 0.90},
				}, nil
			},
			recognizeFunc: func(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
				if cropData[0] == byte(regionA.X1) {
					return []entity.OCRLine{{Text: "ABC1234", Confidence: 0.93}}, nil
				}
				// ABC1239はABC1234に対して類似度 12/14 ≈ 0.857 ≥ 0.85
				return []entity.OCRLine{
					{Text: "ABC1239", Confidence: 0.80},
					{Text: "XYZ789", Confidence: 0.75},
				}, nil
			},
			expectedLines: []entity.OCRLine{
				{Text: "ABC1234", Confidence: 0.93},
				{Text: "XYZ789", Confidence: 0.75},
			},
		},
		{
			name:      "success: blank lines are dropped",
			imageData: []byte("fake-image-data"),
			detectFunc: func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
				return []entity.DetectedPlate{{Region: regionA, Confidence: 0.95}}, nil
			},
			recognizeFunc: func(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
				return []entity.OCRLine{
					{Text: "   ", Confidence: 0.99},
					{Text: "", Confidence: 0.99},
					{Text: "DEF456", Confidence: 0.60},
				}, nil
			},
			expectedLines: []entity.OCRLine{{Text: "DEF456", Confidence: 0.60}},
		},
		{
			name:      "success: no regions detected",
			imageData: []byte("fake-image-data"),
			detectFunc: func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
				return nil, nil
			},
			expectedLines: nil,
		},
		{
			name:        "error: empty image data",
			imageData:   []byte{},
			expectedErr: "image data is empty",
		},
		{
			name:        "error: image too large",
			imageData:   make([]byte, usecase.MaxImageSize+1),
			expectedErr: "image size exceeds maximum",
		},
		{
			name:      "error: detector fails",
			imageData: []byte("fake-image-data"),
			detectFunc: func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
				return nil, ErrBackend
			},
			expectedErr: "plate detection failed",
		},
		{
			name:      "error: recognizer fails",
			imageData: []byte("fake-image-data"),
			detectFunc: func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
				return []entity.DetectedPlate{{Region: regionA, Confidence: 0.95}}, nil
			},
			recognizeFunc: func(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
				return nil, ErrBackend
			},
			expectedErr: "text recognition failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			detector := &mockPlateDetector{DetectPlatesFunc: tc.detectFunc}
			recognizer := &mockTextRecognizer{RecognizeTextFunc: tc.recognizeFunc}
			editor := &mockImageEditor{}
			uc := usecase.NewPlateScanUsecase(detector, recognizer, editor)

			result, err := uc.Scan(ctx, tc.imageData)

			if tc.expectedErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tc.expectedErr)
				}
				if !strings.Contains(err.Error(), tc.expectedErr) {
					t.Fatalf("expected error containing %q, got %q", tc.expectedErr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result.Lines, tc.expectedLines) {
				t.Errorf("lines mismatch: got %v, want %v", result.Lines, tc.expectedLines)
			}
			if string(result.Annotated) != "annotated" {
				t.Errorf("annotated image not passed through: got %q", result.Annotated)
			}
		})
	}
}

// TestPlateScanUsecase_Scan_SkipsEmptyRegions は面積を持たない検出領域で
// 切り出しとOCRが呼ばれないことを検証します。
func TestPlateScanUsecase_Scan_SkipsEmptyRegions(t *testing.T) {
	ctx := context.Background()

	detector := &mockPlateDetector{
		DetectPlatesFunc: func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
			return []entity.DetectedPlate{
				{Region: entity.Region{X1: 10, Y1: 10, X2: 10, Y2: 30}, Confidence: 0.9},
			}, nil
		},
	}
	recognizer := &mockTextRecognizer{}
	uc := usecase.NewPlateScanUsecase(detector, recognizer, &mockImageEditor{})

	result, err := uc.Scan(ctx, []byte("fake-image-data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recognizer.RecognizeTextCalls != 0 {
		t.Errorf("recognizer should not be called for empty regions, got %d calls", recognizer.RecognizeTextCalls)
	}
	if len(result.Lines) != 0 {
		t.Errorf("expected no lines, got %v", result.Lines)
	}
}

// TestPlateScanUsecase_Scan_AnnotateError は表示用コピーの描画失敗が
// エラーとして伝播されることを検証します。
func TestPlateScanUsecase_Scan_AnnotateError(t *testing.T) {
	ctx := context.Background()

	detector := &mockPlateDetector{
		DetectPlatesFunc: func(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
			return nil, nil
		},
	}
	editor := &mockImageEditor{
		DrawRegionsFunc: func(img []byte, regions []entity.Region) ([]byte, error) {
			return nil, ErrBackend
		},
	}
	uc := usecase.NewPlateScanUsecase(detector, &mockTextRecognizer{}, editor)

	_, err := uc.Scan(ctx, []byte("fake-image-data"))
	if err == nil || !errors.Is(err, ErrBackend) {
		t.Fatalf("expected annotate error, got %v", err)
	}
}
