package app

import (
	"context"
	"errors"
	"fmt"

	"media_ingest_service/internal/media/domain"
	"media_ingest_service/internal/media/repository"
	errprocess "media_ingest_service/pkg/err"
)

// CurrentFilmUseCase 本期影片單例的建立、查詢與清除，
// 唯一性交給儲存層的約束，這裡只負責把衝突轉成型別化的結果
type CurrentFilmUseCase interface {
	// Create 重複建立回傳 domain.ErrCurrentFilmExists，原有記錄不變
	Create(ctx context.Context, film *domain.CurrentFilm) (*domain.CurrentFilm, error)
	// Get 尚未設定本期影片時回傳 (nil, nil)
	Get(ctx context.Context) (*domain.CurrentFilm, error)
	// Clear 無條件清空單例欄位，回傳 false 表示原本就是空的
	Clear(ctx context.Context) (bool, error)
}

type currentFilmUseCase struct {
	filmRepo repository.CurrentFilmRepo
}

// NewCurrentFilmUseCase 建立一個新的 CurrentFilmUseCase
func NewCurrentFilmUseCase(filmRepo repository.CurrentFilmRepo) CurrentFilmUseCase {
	return &currentFilmUseCase{filmRepo: filmRepo}
}

func (u *currentFilmUseCase) Create(ctx context.Context, film *domain.CurrentFilm) (*domain.CurrentFilm, error) {
	film.LockKey = domain.CurrentFilmLockKey
	if err := u.filmRepo.Create(ctx, film); err != nil {
		if errors.Is(err, domain.ErrCurrentFilmExists) {
			// 型別化的衝突結果，呼叫端對應 409，不是一般性失敗
			return nil, domain.ErrCurrentFilmExists
		}
		return nil, errprocess.Set(fmt.Sprintf("title[%s] 建立本期影片失敗 : %v", film.Title, err))
	}
	return film, nil
}

func (u *currentFilmUseCase) Get(ctx context.Context) (*domain.CurrentFilm, error) {
	film, err := u.filmRepo.Get(ctx)
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("查詢本期影片失敗 : %v", err))
	}
	return film, nil
}

func (u *currentFilmUseCase) Clear(ctx context.Context) (bool, error) {
	cleared, err := u.filmRepo.Delete(ctx)
	if err != nil {
		return false, errprocess.Set(fmt.Sprintf("清除本期影片失敗 : %v", err))
	}
	return cleared, nil
}
