package usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	"plate_backend/internal/feature/media/domain/entity"
)

// OutputPrefix は注釈付き画像のファイル名プレフィックスです。
const OutputPrefix = "output_"

// FileStore はワーキングディレクトリへのファイル保存を抽象化するリポジトリ
// インターフェースです。Goの慣例に従い、インターフェースは利用者（usecase）
// 側で定義します。
type FileStore interface {
	// Save はワーキングディレクトリにファイルを書き込み、保存名を返します。
	Save(name string, data []byte) (string, error)
	// Open はワーキングディレクトリ内のファイルを読み込みます。
	Open(name string) ([]byte, error)
	// Path はワーキングディレクトリ内のファイルの絶対パスを返します。
	Path(name string) (string, error)
}

// mediaUsecase はアップロードの受け入れ判定と保存を提供します。
type mediaUsecase struct {
	store FileStore
}

// NewMediaUsecase はmediaUsecaseの新しいインスタンスを生成します。
func NewMediaUsecase(store FileStore) *mediaUsecase {
	return &mediaUsecase{store: store}
}

// SaveUpload はアップロードされたファイルを検証してワーキングディレクトリに
// 保存し、サニタイズ後の保存名を返します。動画はErrVideoUnsupported、
// 未知の形式はErrUnsupportedTypeで拒否します。
func (u *mediaUsecase) SaveUpload(filename string, data []byte) (string, error) {
	name := Sanitize(filename)
	if name == "" {
		return "", ErrUnsupportedType
	}

	switch entity.KindOf(name) {
	case entity.KindImage:
		// 処理対象
	case entity.KindVideo:
		return "", ErrVideoUnsupported
	default:
		return "", ErrUnsupportedType
	}

	saved, err := u.store.Save(name, data)
	if err != nil {
		return "", fmt.Errorf("saving upload %q: %w", name, err)
	}
	return saved, nil
}

// SaveAnnotated は注釈付き画像をアップロードと同じディレクトリへ
// "output_<name>" として保存し、保存名を返します。
func (u *mediaUsecase) SaveAnnotated(uploadName string, data []byte) (string, error) {
	name := OutputPrefix + Sanitize(uploadName)
	saved, err := u.store.Save(name, data)
	if err != nil {
		return "", fmt.Errorf("saving annotated image %q: %w", name, err)
	}
	return saved, nil
}

// Open はワーキングディレクトリ内の保存済みファイルを返します。
// ディレクトリ外を指す名前はErrFileNotFoundとして扱います。
func (u *mediaUsecase) Open(name string) ([]byte, error) {
	clean := Sanitize(name)
	if clean == "" || clean != name {
		return nil, ErrFileNotFound
	}
	return u.store.Open(clean)
}

// Sanitize はアップロード名をベース名のみに落とし、パス区切りや相対参照を
// 取り除きます。受け入れられない名前には空文字を返します。
func Sanitize(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return ""
	}
	return name
}
