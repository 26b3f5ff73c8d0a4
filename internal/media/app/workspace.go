package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"media_ingest_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Workspace 單次上傳請求專屬的暫存工作目錄，
// 只能透過 NewWorkspace 取得，Release 負責整棵目錄樹的回收
type Workspace struct {
	// ID 同時作為目錄名稱與 pipeline 的 run id
	ID string

	root        string
	releaseOnce sync.Once
}

// NewWorkspace 在 baseDir 底下建立隔離的工作目錄，建立失敗直接讓該次 run 失敗
func NewWorkspace(baseDir string) (*Workspace, error) {
	id := uuid.NewString()
	root := filepath.Join(baseDir, id)
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("建立工作目錄失敗: %w", err)
	}
	return &Workspace{ID: id, root: root}, nil
}

// Root 工作目錄路徑
func (w *Workspace) Root() string {
	return w.root
}

// InputPath 原始影片在工作目錄內的落地路徑，
// 檔名固定為 source + 原始副檔名，不讓使用者字串進到路徑
func (w *Workspace) InputPath(fileName string) string {
	return filepath.Join(w.root, "source"+filepath.Ext(fileName))
}

// OutputDir 建立並回傳轉碼輸出目錄
func (w *Workspace) OutputDir() (string, error) {
	dir := filepath.Join(w.root, "output")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("建立轉碼輸出目錄失敗: %w", err)
	}
	return dir, nil
}

// Release 遞迴移除工作目錄，重複呼叫只會執行一次，
// 每一條結束路徑（成功、轉碼失敗、上傳失敗）都必須經過這裡
func (w *Workspace) Release() {
	w.releaseOnce.Do(func() {
		if err := os.RemoveAll(w.root); err != nil {
			logger.Log.Warn("清理工作目錄失敗",
				zap.String("workspace", w.root),
				zap.Error(err),
			)
		}
	})
}
