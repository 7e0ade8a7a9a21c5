package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/kizuna/internal/model"
)

// publicPathPrefix はディスクストアが配信する公開URLのパス接頭辞。
const publicPathPrefix = "/uploads/"

// DiskStore はローカルディスクにファイルを保存するStore実装。
// 保存したファイルはHTTPサーバーの/uploads/配下で配信される。
type DiskStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewDiskStore はDiskStoreを生成し、保存先ディレクトリを作成する。
// baseURLは公開URLの組み立てに使用される（例: "https://family.example.com"）。
func NewDiskStore(dir, baseURL string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("アップロードディレクトリの作成に失敗しました: %w", err)
	}

	return &DiskStore{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

// Dir は保存先ディレクトリのパスを返す。静的配信ルートの設定に使用する。
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save はファイル本体をディスクに保存し、公開URLを含むメタデータを返す。
// ファイル名の衝突を避けるためUUIDを前置する。
func (s *DiskStore) Save(ctx context.Context, originalName, mimeType string, r io.Reader) (*SavedFile, error) {
	if !allowedMimeType(mimeType) {
		return nil, model.NewUnsupportedMediaError(mimeType)
	}

	fileName := uuid.New().String() + "_" + sanitizeFileName(originalName)
	filePath := filepath.Join(s.dir, fileName)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("ファイルの作成に失敗しました: %w", err)
	}
	defer dst.Close()

	// maxBytes+1まで読み、上限超過を検出する
	written, err := io.Copy(dst, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("ファイルの書き込みに失敗しました: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(filePath)
		return nil, model.NewUploadTooLargeError(s.maxBytes)
	}

	return &SavedFile{
		URL:          s.baseURL + publicPathPrefix + fileName,
		MimeType:     mimeType,
		OriginalName: originalName,
		SizeBytes:    written,
	}, nil
}

// allowedMimeType は添付として受け付けるMIMEタイプかを返す。
// 画像・動画・音声のみ許可する。
func allowedMimeType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") ||
		strings.HasPrefix(mimeType, "video/") ||
		strings.HasPrefix(mimeType, "audio/")
}

// sanitizeFileName はパス区切りなどの危険な文字をファイル名から除去する。
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "file"
	}
	return name
}

// compile-time interface check
var _ Store = (*DiskStore)(nil)
