// Package entity はmediaフィーチャーのドメインモデルを定義します。
package entity

import (
	"path/filepath"
	"strings"
)

// Kind はアップロードされたファイルの種別です。
type Kind int

const (
	// KindUnknown はサポート外のファイル種別です。
	KindUnknown Kind = iota
	// KindImage は処理可能な静止画です。
	KindImage
	// KindVideo は動画です（明示的に非サポート）。
	KindVideo
)

// imageExts は処理対象の画像拡張子です。
var imageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".bmp": {},
}

// videoExts は受け付けるが処理しない動画拡張子です。
var videoExts = map[string]struct{}{
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {},
}

// KindOf はファイル名の拡張子からファイル種別を判定します。
// 拡張子の大文字小文字は区別しません。
func KindOf(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageExts[ext]; ok {
		return KindImage
	}
	if _, ok := videoExts[ext]; ok {
		return KindVideo
	}
	return KindUnknown
}
