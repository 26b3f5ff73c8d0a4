package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
)

// Category 影片分類
type Category string

const (
	// CategoryShortFilms 短片分類
	CategoryShortFilms Category = "short_films"
	// CategoryFilms 長片分類
	CategoryFilms Category = "films"
)

const (
	// ManifestFileName 轉碼輸出的播放清單檔名，物件 key 一律為 {category}/{slug}/output.manifest
	ManifestFileName = "output.manifest"
	// SegmentFilePattern 分段檔名格式，從 segment_000.ts 開始遞增
	SegmentFilePattern = "segment_%03d.ts"
	// TeaserKeyPrefix 預告片固定使用的 key prefix，重複上傳會直接覆蓋舊檔
	TeaserKeyPrefix = "short_films/teaser"
)

// ErrInvalidPlaybackPath 播放路徑驗證失敗（分類或路徑片段不合法），
// 與簽發端故障區分開來，呼叫端據此決定回應碼
var ErrInvalidPlaybackPath = errors.New("invalid playback path")

// ValidCategory 檢查是否為支援的影片分類
func ValidCategory(c string) bool {
	switch Category(c) {
	case CategoryShortFilms, CategoryFilms:
		return true
	}
	return false
}

// Slugify 將標題轉成儲存路徑用的 slug：小寫、空白轉底線、其餘非英數字元剔除
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AssetKeyPrefix 組出資產在物件儲存上的 key prefix，例如 "short_films/my_cool_film"
func AssetKeyPrefix(category Category, slug string) string {
	return fmt.Sprintf("%s/%s", category, slug)
}

// ManifestKey 組出播放清單的完整物件 key
func ManifestKey(category Category, slug string) string {
	return fmt.Sprintf("%s/%s/%s", category, slug, ManifestFileName)
}

// ManifestURL 資產的播放入口，僅由 category 與 slug 推導
func ManifestURL(category Category, slug string) string {
	return "/stream/" + ManifestKey(category, slug)
}

// Asset 已發布的影音資產（影片或預告片）
type Asset struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailOne string    `json:"thumbnailOne"`
	ThumbnailTwo string    `json:"thumbnailTwo"`
	ManifestURL  string    `json:"manifestUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IngestRequest usecase 層接收的上傳請求，檔案內容已通過 MIME 驗證
type IngestRequest struct {
	Category     Category
	Title        string
	Description  string
	ThumbnailOne string
	ThumbnailTwo string
	FileName     string
	File         io.Reader
}
