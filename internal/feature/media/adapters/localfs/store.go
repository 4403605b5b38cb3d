// Package localfs はmediaフィーチャーのワーキングディレクトリ実装を提供します。
package localfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"plate_backend/internal/feature/media/usecase"
)

// fileStore はFileStoreインターフェースのローカルファイルシステム実装です。
// 全ファイルを単一のワーキングディレクトリ直下に保存します。
type fileStore struct {
	dir string
}

// fileStoreがFileStoreを実装していることをコンパイル時に検証します。
var _ usecase.FileStore = (*fileStore)(nil)

// NewFileStore は指定されたワーキングディレクトリでfileStoreの新しい
// インスタンスを生成します。ディレクトリは存在しなければ作成されます。
func NewFileStore(dir string) (*fileStore, error) {
	if dir == "" {
		dir = "temp"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating working directory %q: %w", dir, err)
	}
	return &fileStore{dir: dir}, nil
}

// Save はワーキングディレクトリ直下にファイルを書き込みます。
func (s *fileStore) Save(name string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// Open はワーキングディレクトリ直下のファイルを読み込みます。
// 存在しない場合はusecase.ErrFileNotFoundを返します。
func (s *fileStore) Open(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, usecase.ErrFileNotFound
		}
		return nil, err
	}
	return data, nil
}

// Path はワーキングディレクトリ直下のファイルの絶対パスを返します。
func (s *fileStore) Path(name string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	return abs, nil
}
