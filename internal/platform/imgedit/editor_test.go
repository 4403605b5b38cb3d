package imgedit_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/platform/imgedit"
)

var (
	red   = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	green = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
)

// makePNG は指定サイズの赤一色のPNG画像を生成するヘルパー関数です。
func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := imaging.New(width, height, red)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// decodePNG は生成結果をNRGBAとしてデコードするヘルパー関数です。
func decodePNG(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode result image: %v", err)
	}
	return imaging.Clone(img)
}

func TestEditor_DrawRegions(t *testing.T) {
	t.Parallel()

	editor := imgedit.NewEditor()
	src := makePNG(t, 100, 60)

	out, err := editor.DrawRegions(src, []entity.Region{{X1: 10, Y1: 10, X2: 50, Y2: 40}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := decodePNG(t, out)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 60 {
		t.Fatalf("unexpected dimensions: %v", got.Bounds())
	}

	// 枠線は2px: (10,10)と(11,11)は緑、内側(13,13)と枠外(0,0)は赤のまま
	tests := []struct {
		x, y     int
		expected color.NRGBA
	}{
		{10, 10, green},
		{11, 11, green},
		{49, 39, green},
		{13, 13, red},
		{30, 25, red},
		{0, 0, red},
	}
	for _, tt := range tests {
		if c := got.NRGBAAt(tt.x, tt.y); c != tt.expected {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, c, tt.expected)
		}
	}
}

func TestEditor_DrawRegions_OutOfBounds(t *testing.T) {
	t.Parallel()

	editor := imgedit.NewEditor()
	src := makePNG(t, 100, 60)

	// 完全に範囲外の領域は黙ってスキップされる
	out, err := editor.DrawRegions(src, []entity.Region{{X1: 200, Y1: 200, X2: 300, Y2: 300}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := decodePNG(t, out)
	if c := got.NRGBAAt(50, 30); c != red {
		t.Errorf("image should be untouched, pixel (50,30) = %v", c)
	}
}

func TestEditor_DrawRegions_InvalidImage(t *testing.T) {
	t.Parallel()

	editor := imgedit.NewEditor()
	if _, err := editor.DrawRegions([]byte("not an image"), nil); err == nil {
		t.Fatal("expected error for invalid image data")
	}
}

func TestEditor_Crop(t *testing.T) {
	t.Parallel()

	editor := imgedit.NewEditor()
	src := makePNG(t, 100, 60)

	tests := []struct {
		name           string
		region         entity.Region
		expectedWidth  int
		expectedHeight int
		expectErr      bool
	}{
		{
			name:           "region inside bounds",
			region:         entity.Region{X1: 10, Y1: 10, X2: 50, Y2: 40},
			expectedWidth:  40,
			expectedHeight: 30,
		},
		{
			name:           "region clamped to bounds",
			region:         entity.Region{X1: 90, Y1: 50, X2: 200, Y2: 100},
			expectedWidth:  10,
			expectedHeight: 10,
		},
		{
			name:      "region fully outside bounds",
			region:    entity.Region{X1: 200, Y1: 200, X2: 300, Y2: 300},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := editor.Crop(src, tt.region)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := decodePNG(t, out)
			if got.Bounds().Dx() != tt.expectedWidth || got.Bounds().Dy() != tt.expectedHeight {
				t.Errorf("crop size = %dx%d, want %dx%d",
					got.Bounds().Dx(), got.Bounds().Dy(), tt.expectedWidth, tt.expectedHeight)
			}
		})
	}
}

func TestEditor_Crop_InvalidImage(t *testing.T) {
	t.Parallel()

	editor := imgedit.NewEditor()
	if _, err := editor.Crop([]byte("not an image"), entity.Region{X1: 0, Y1: 0, X2: 10, Y2: 10}); err == nil {
		t.Fatal("expected error for invalid image data")
	}
}
