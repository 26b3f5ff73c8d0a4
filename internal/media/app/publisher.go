package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"media_ingest_service/pkg/database"

	"golang.org/x/sync/errgroup"
)

// SegmentPublisher 把轉碼輸出整批上傳到物件儲存，
// 分段之間沒有順序相依，全部平行上傳、全數成功才算完成
type SegmentPublisher struct {
	minioClient database.MinIOClientRepo
}

// NewSegmentPublisher create a SegmentPublisher
func NewSegmentPublisher(minioClient database.MinIOClientRepo) *SegmentPublisher {
	return &SegmentPublisher{minioClient: minioClient}
}

// ContentTypeByExt 依副檔名決定物件的 Content-Type
func ContentTypeByExt(filename string) string {
	switch filepath.Ext(filename) {
	case ".manifest", ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/MP2T"
	default:
		return "application/octet-stream"
	}
}

// PublishDir 將 localDir 內的每個檔案上傳到 keyPrefix 底下，
// 任何一個上傳失敗整批就算失敗；相同 keyPrefix 重跑會直接覆蓋既有物件。
// 回傳成功上傳的檔案數
func (p *SegmentPublisher) PublishDir(ctx context.Context, localDir, keyPrefix string) (int, error) {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return 0, fmt.Errorf("讀取轉碼輸出目錄失敗: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		localPath := filepath.Join(localDir, name)
		objectName := keyPrefix + "/" + name
		count++
		g.Go(func() error {
			if err := p.minioClient.UploadFile(gctx, objectName, localPath, ContentTypeByExt(name)); err != nil {
				return fmt.Errorf("上傳 %s 失敗: %w", objectName, err)
			}
			return nil
		})
	}

	if count == 0 {
		return 0, errors.New("轉碼輸出目錄沒有任何檔案")
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return count, nil
}
