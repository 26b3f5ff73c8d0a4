package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"media_ingest_service/internal/media/domain"
	"media_ingest_service/internal/media/repository"
	"media_ingest_service/pkg/database"
	errprocess "media_ingest_service/pkg/err"
	"media_ingest_service/pkg/logger"

	"go.uber.org/zap"
)

const (
	// recentAssetsCacheKey 預設列表的快取 key，資產增刪時由 pipeline 或刪除操作清除
	recentAssetsCacheKey = "assets:recent"
	// recentAssetsCacheTTL 列表快取存活時間
	recentAssetsCacheTTL = 30 * time.Second

	// DefaultListLimit 未帶 limit 時的預設列表筆數
	DefaultListLimit = 20

	// playbackURLExpiry 簽名播放 URL 的固定有效期
	playbackURLExpiry = 10 * time.Minute
)

// CatalogUseCase 已發布資產的查詢、刪除與播放 URL 簽發
type CatalogUseCase interface {
	ListAssets(ctx context.Context, limit int) ([]domain.Asset, error)
	GetAsset(ctx context.Context, id uint) (*domain.Asset, error)
	DeleteAsset(ctx context.Context, id uint) (bool, error)
	// PlaybackURL 回傳簽名 URL 與對應的 Content-Type，
	// 每次呼叫都重新簽發，不做任何快取
	PlaybackURL(ctx context.Context, category, slug, filename string) (string, string, error)
}

type catalogUseCase struct {
	assetRepo   repository.AssetRepo
	minioClient database.MinIOClientRepo
	listCache   database.RedisRepository[[]domain.Asset]
}

// NewCatalogUseCase 建立一個新的 CatalogUseCase
func NewCatalogUseCase(
	assetRepo repository.AssetRepo,
	minioClient database.MinIOClientRepo,
	listCache database.RedisRepository[[]domain.Asset],
) CatalogUseCase {
	return &catalogUseCase{
		assetRepo:   assetRepo,
		minioClient: minioClient,
		listCache:   listCache,
	}
}

// ListAssets 由新到舊列出資產，只有預設筆數的列表會走快取
func (u *catalogUseCase) ListAssets(ctx context.Context, limit int) ([]domain.Asset, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	useCache := u.listCache != nil && limit == DefaultListLimit
	if useCache {
		if assets, hit, err := u.listCache.Get(ctx, recentAssetsCacheKey); err != nil {
			logger.Log.Warn("讀取資產列表快取失敗", zap.Error(err))
		} else if hit {
			return assets, nil
		}
	}

	assets, err := u.assetRepo.List(limit)
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("limit[%d] 列出資產失敗 : %v", limit, err))
	}

	if useCache {
		if err := u.listCache.Set(ctx, recentAssetsCacheKey, assets, recentAssetsCacheTTL); err != nil {
			logger.Log.Warn("寫入資產列表快取失敗", zap.Error(err))
		}
	}
	return assets, nil
}

// GetAsset 依 id 取得資產，查無資料回傳 (nil, nil)
func (u *catalogUseCase) GetAsset(ctx context.Context, id uint) (*domain.Asset, error) {
	asset, err := u.assetRepo.GetByID(id)
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("assetID[%d] 查詢資產失敗 : %v", id, err))
	}
	return asset, nil
}

// DeleteAsset 刪除資產記錄，回傳 false 表示該 id 不存在；
// 物件儲存上的分段檔保留，清理是獨立的管理作業
func (u *catalogUseCase) DeleteAsset(ctx context.Context, id uint) (bool, error) {
	deleted, err := u.assetRepo.Delete(id)
	if err != nil {
		return false, errprocess.Set(fmt.Sprintf("assetID[%d] 刪除資產失敗 : %v", id, err))
	}
	if deleted && u.listCache != nil {
		if err := u.listCache.Del(ctx, recentAssetsCacheKey); err != nil {
			logger.Log.Warn("清除資產列表快取失敗", zap.Error(err))
		}
	}
	return deleted, nil
}

// PlaybackURL 純映射：(category, slug, filename) → 10 分鐘簽名 URL，
// 不讀資料庫，Content-Type 依副檔名協商
func (u *catalogUseCase) PlaybackURL(ctx context.Context, category, slug, filename string) (string, string, error) {
	if !domain.ValidCategory(category) {
		return "", "", fmt.Errorf("%w: 不支援的影片分類 %s", domain.ErrInvalidPlaybackPath, category)
	}
	if !validKeyPart(slug) || !validKeyPart(filename) {
		return "", "", fmt.Errorf("%w: %s/%s/%s", domain.ErrInvalidPlaybackPath, category, slug, filename)
	}

	objectKey := fmt.Sprintf("%s/%s/%s", category, slug, filename)
	contentType := ContentTypeByExt(filename)

	url, err := u.minioClient.PresignGetURL(ctx, objectKey, contentType, playbackURLExpiry)
	if err != nil {
		return "", "", errprocess.Set(fmt.Sprintf("objectKey[%s] 簽發播放 URL 失敗 : %v", objectKey, err))
	}
	return url, contentType, nil
}

// validKeyPart 物件 key 的單一路徑片段不得為空、不得含路徑符號
func validKeyPart(part string) bool {
	return part != "" && !strings.Contains(part, "/") && !strings.Contains(part, "..")
}
