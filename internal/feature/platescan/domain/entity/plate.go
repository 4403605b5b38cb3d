// Package entity はplatescanフィーチャーのドメインモデルを定義します。
package entity

// Region は画像内の矩形領域をピクセル座標で表します。
// X1,Y1 が左上、X2,Y2 が右下です。
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// Width は領域の幅を返します。
func (r Region) Width() int { return r.X2 - r.X1 }

// Height は領域の高さを返します。
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Empty は領域が面積を持たない場合にtrueを返します。
func (r Region) Empty() bool { return r.X2 <= r.X1 || r.Y2 <= r.Y1 }

// DetectedPlate は物体検出器が見つけたナンバープレート候補領域を表します。
type DetectedPlate struct {
	Region     Region  // 検出された領域（ピクセル座標）
	Confidence float32 // 信頼度スコア（0.0 ~ 1.0）
}
