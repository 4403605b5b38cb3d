package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	platescanhandler "plate_backend/internal/feature/platescan/transport/handler"
	"plate_backend/internal/platform/http/handler"
	"plate_backend/internal/web"
)

// NewRouter はアプリケーションのルータを生成します。
func NewRouter(plates *platescanhandler.PlateScanHandler) *gin.Engine {
	r := gin.Default()

	// ブラウザのページを別オリジンでホストする場合に備えてCORSを許可
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)

	// シングルページUI
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.Index)
	})

	v1 := r.Group("/v1")
	{
		// 画像アップロード → 検出・OCRパイプライン
		v1.POST("/plates/scan", plates.Scan)
		// 注釈付き画像・保存済みファイルの取得
		v1.GET("/plates/files/:name", plates.File)
	}

	return r
}
