package repository

import (
	"errors"

	"media_ingest_service/internal/media/domain"

	"gorm.io/gorm"
)

// AssetRepo definition get asset info
type AssetRepo interface {
	AutoMigrate() error
	Create(asset *domain.Asset) error
	GetByID(id uint) (*domain.Asset, error)
	List(limit int) ([]domain.Asset, error)
	Delete(id uint) (bool, error)
}

type assetRepo struct {
	db *gorm.DB
}

// NewAssetRepo create AssetRepo
func NewAssetRepo(db *gorm.DB) AssetRepo {
	return &assetRepo{db: db}
}

// AutoMigrate 依 domain.Asset 模型建立或更新資料表結構
func (r *assetRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Asset{})
}

// Create 寫入一筆已發布的資產記錄，只在 pipeline 全數成功後呼叫
func (r *assetRepo) Create(asset *domain.Asset) error {
	return retryOnce(func() error {
		return r.db.Create(asset).Error
	})
}

// GetByID 依 id 取得資產，查無資料回傳 (nil, nil) 而非錯誤
func (r *assetRepo) GetByID(id uint) (*domain.Asset, error) {
	var a domain.Asset
	err := retryOnce(func() error {
		return r.db.First(&a, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// List 依建立時間由新到舊列出資產，limit 必須為正整數
func (r *assetRepo) List(limit int) ([]domain.Asset, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be a positive integer")
	}
	var assets []domain.Asset
	err := retryOnce(func() error {
		return r.db.Order("created_at DESC").Limit(limit).Find(&assets).Error
	})
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// Delete 刪除資產記錄，回傳 false 表示該 id 原本就不存在；
// 物件儲存上的分段檔刻意不在此處清除
func (r *assetRepo) Delete(id uint) (bool, error) {
	var deleted bool
	err := retryOnce(func() error {
		res := r.db.Delete(&domain.Asset{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
