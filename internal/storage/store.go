// Package storage は添付ファイルのオブジェクトストアゲートウェイを提供する。
//
// Storeインターフェースの背後でファイル本体を保存し、クライアントが
// そのまま参照できる恒久的な公開URLを返す。現在の実装はローカルディスクのみ。
package storage

import (
	"context"
	"io"
)

// SavedFile は保存済みファイルのメタデータを表す。
type SavedFile struct {
	URL          string
	MimeType     string
	OriginalName string
	SizeBytes    int64
}

// Store はファイル保存のインターフェース。
type Store interface {
	// Save はファイル本体を保存し、公開URLを含むメタデータを返す。
	// 非対応のMIMEタイプはUNSUPPORTED_MEDIA、サイズ超過はUPLOAD_TOO_LARGEの
	// APIErrorを返す。
	Save(ctx context.Context, originalName, mimeType string, r io.Reader) (*SavedFile, error)
}
