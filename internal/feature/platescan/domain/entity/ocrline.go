package entity

// OCRLine はOCRエンジンが切り出し画像から認識したテキスト1行を表します。
type OCRLine struct {
	Text       string  // 認識されたテキスト
	Confidence float32 // 信頼度スコア（0.0 ~ 1.0）
}
