// Package vision はGoogle Cloud Vision APIを使用した検出・OCRクライアントを提供します。
package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	_ "golang.org/x/image/bmp"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/feature/platescan/usecase"
	"plate_backend/internal/shared/ratelimiter"
)

// Client はGoogle Cloud Vision APIで物体検出とテキスト検出を行います。
type Client struct {
	client  *gvision.ImageAnnotatorClient
	limiter ratelimiter.RateLimiterInterface
	labels  map[string]struct{}
}

// ClientがPlateDetectorとTextRecognizerを実装していることをコンパイル時に検証します。
var (
	_ usecase.PlateDetector  = (*Client)(nil)
	_ usecase.TextRecognizer = (*Client)(nil)
)

// NewClient はADCを使用してClientの新しいインスタンスを生成します。
// labelsが空でない場合、物体検出結果をそのラベル名（小文字比較）で絞り込みます。
func NewClient(ctx context.Context, labels []string, limiter ratelimiter.RateLimiterInterface) (*Client, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	c := &Client{client: client, limiter: limiter}
	if len(labels) > 0 {
		c.labels = make(map[string]struct{}, len(labels))
		for _, l := range labels {
			if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
				c.labels[l] = struct{}{}
			}
		}
	}
	return c, nil
}

// Close はVision APIクライアントを解放します。
func (c *Client) Close() error {
	return c.client.Close()
}

// DetectPlates は画像バイト列から物体検出でプレート候補領域を検出します。
// 正規化座標はピクセル座標に変換して返します。
func (c *Client) DetectPlates(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("reading image dimensions: %w", err)
	}

	resp, err := c.annotate(ctx, imageData, visionpb.Feature_OBJECT_LOCALIZATION)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	plates := make([]entity.DetectedPlate, 0, len(resp.LocalizedObjectAnnotations))
	for _, obj := range resp.LocalizedObjectAnnotations {
		if c.labels != nil {
			if _, ok := c.labels[strings.ToLower(obj.Name)]; !ok {
				continue
			}
		}
		region, ok := regionFromPoly(obj.BoundingPoly, cfg.Width, cfg.Height)
		if !ok {
			continue
		}
		plates = append(plates, entity.DetectedPlate{
			Region:     region,
			Confidence: obj.Score,
		})
	}
	return plates, nil
}

// RecognizeText は切り出し画像からテキスト検出でテキスト行を認識します。
// 段落単位でテキストを組み立て、段落の信頼度を行の信頼度として返します。
func (c *Client) RecognizeText(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
	resp, err := c.annotate(ctx, cropData, visionpb.Feature_TEXT_DETECTION)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.FullTextAnnotation == nil {
		return nil, nil
	}

	var lines []entity.OCRLine
	for _, page := range resp.FullTextAnnotation.Pages {
		for _, block := range page.Blocks {
			for _, para := range block.Paragraphs {
				text := paragraphText(para)
				if text == "" {
					continue
				}
				lines = append(lines, entity.OCRLine{
					Text:       text,
					Confidence: para.Confidence,
				})
			}
		}
	}
	return lines, nil
}

// annotate は単一featureのBatchAnnotateImagesリクエストを実行します。
func (c *Client) annotate(ctx context.Context, imageData []byte, feature visionpb.Feature_Type) (*visionpb.AnnotateImageResponse, error) {
	if c.limiter != nil {
		c.limiter.WaitIfNeeded()
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: feature},
				},
			},
		},
	}

	resp, err := c.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, nil
	}
	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}
	return resp.Responses[0], nil
}

// regionFromPoly は正規化座標のバウンディングポリゴンをピクセル座標の
// 矩形に変換します。
func regionFromPoly(poly *visionpb.BoundingPoly, width, height int) (entity.Region, bool) {
	if poly == nil || len(poly.NormalizedVertices) == 0 {
		return entity.Region{}, false
	}

	minX, minY := float32(1), float32(1)
	maxX, maxY := float32(0), float32(0)
	for _, v := range poly.NormalizedVertices {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}

	r := entity.Region{
		X1: int(minX * float32(width)),
		Y1: int(minY * float32(height)),
		X2: int(maxX * float32(width)),
		Y2: int(maxY * float32(height)),
	}
	return r, !r.Empty()
}

// paragraphText は段落内の単語をスペース区切りで連結します。
func paragraphText(para *visionpb.Paragraph) string {
	words := make([]string, 0, len(para.Words))
	for _, w := range para.Words {
		var sb strings.Builder
		for _, s := range w.Symbols {
			sb.WriteString(s.Text)
		}
		if sb.Len() > 0 {
			words = append(words, sb.String())
		}
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
