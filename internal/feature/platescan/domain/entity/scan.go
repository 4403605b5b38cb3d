package entity

// ScanResult は1枚の画像に対するパイプライン全体の結果を表します。
type ScanResult struct {
	Annotated []byte          // 検出枠を描画した表示用画像（元画像と同じフォーマット）
	Plates    []DetectedPlate // 検出された領域
	Lines     []OCRLine       // 重複除去後の認識テキスト
}
