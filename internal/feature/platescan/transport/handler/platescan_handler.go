// Package handler はplatescanフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"plate_backend/internal/api"
	mediausecase "plate_backend/internal/feature/media/usecase"
	"plate_backend/internal/feature/platescan/domain/entity"
	platescanusecase "plate_backend/internal/feature/platescan/usecase"
)

// filesRoute は注釈付き画像の取得エンドポイントのベースパスです。
const filesRoute = "/v1/plates/files/"

// PlateScanUsecase はスキャンパイプラインのユースケースインターフェースを
// 定義します。Goの慣例に従い、インターフェースは利用者（handler）側で
// 定義します。
type PlateScanUsecase interface {
	Scan(ctx context.Context, imageData []byte) (*entity.ScanResult, error)
}

// MediaUsecase はアップロード保存まわりのユースケースインターフェースを
// 定義します。
type MediaUsecase interface {
	SaveUpload(filename string, data []byte) (string, error)
	SaveAnnotated(uploadName string, data []byte) (string, error)
	Open(name string) ([]byte, error)
}

// PlateScanHandler はナンバープレート検出のHTTPリクエストを処理します。
type PlateScanHandler struct {
	scan  PlateScanUsecase
	media MediaUsecase
}

// NewPlateScanHandler はPlateScanHandlerの新しいインスタンスを生成します。
func NewPlateScanHandler(scan PlateScanUsecase, media MediaUsecase) *PlateScanHandler {
	return &PlateScanHandler{scan: scan, media: media}
}

// Scan は画像をアップロードしてパイプライン全体を実行します。
//
// エンドポイント: POST /v1/plates/scan
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大10MB）
func (h *PlateScanHandler) Scan(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "an image file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read the uploaded image"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	imageData, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read the uploaded image"})
		return
	}

	// サイズ不正はリクエスト側の問題なのでパイプラインに渡さず400で拒否する
	if len(imageData) == 0 {
		slog.Warn("空の画像ファイルを拒否", "filename", file.Filename)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "the uploaded image is empty"})
		return
	}
	if len(imageData) > platescanusecase.MaxImageSize {
		slog.Warn("サイズ上限を超える画像を拒否", "filename", file.Filename, "size", len(imageData))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "the image exceeds the 10MB size limit"})
		return
	}

	savedName, err := h.media.SaveUpload(file.Filename, imageData)
	if err != nil {
		switch {
		case errors.Is(err, mediausecase.ErrVideoUnsupported):
			slog.Warn("動画ファイルを拒否", "filename", file.Filename)
			c.JSON(http.StatusUnsupportedMediaType, api.ErrorResponse{Error: "video processing is not supported"})
		case errors.Is(err, mediausecase.ErrUnsupportedType):
			slog.Warn("未対応のファイル形式を拒否", "filename", file.Filename)
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unsupported file type"})
		default:
			slog.Error("アップロードの保存に失敗", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to save the uploaded image"})
		}
		return
	}

	result, err := h.scan.Scan(c.Request.Context(), imageData)
	if err != nil {
		slog.Error("スキャンに失敗", "error", err, "filename", savedName)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "plate detection failed"})
		return
	}

	outName, err := h.media.SaveAnnotated(savedName, result.Annotated)
	if err != nil {
		slog.Error("注釈付き画像の保存に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to save the annotated image"})
		return
	}

	rows := make([]api.OCRLineResponse, 0, len(result.Lines))
	for _, l := range result.Lines {
		rows = append(rows, api.OCRLineResponse{
			Text:       l.Text,
			Confidence: l.Confidence,
		})
	}
	c.JSON(http.StatusOK, api.ScanResponse{
		File:         savedName,
		AnnotatedURL: filesRoute + outName,
		Results:      rows,
	})
}

// File はワーキングディレクトリ内の保存済みファイルを返します。
//
// エンドポイント: GET /v1/plates/files/:name
func (h *PlateScanHandler) File(c *gin.Context) {
	name := c.Param("name")
	data, err := h.media.Open(name)
	if err != nil {
		if errors.Is(err, mediausecase.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "file not found"})
			return
		}
		slog.Error("ファイルの読み込みに失敗", "error", err, "name", name)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read the file"})
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
