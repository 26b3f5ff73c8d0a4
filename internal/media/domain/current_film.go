package domain

import (
	"errors"
	"time"
)

// CurrentFilmLockKey 固定的唯一鍵值，確保 current_film 資料表最多只有一筆資料
const CurrentFilmLockKey = "current"

// ErrCurrentFilmExists 已存在本期影片，由儲存層的唯一約束違反轉譯而來
var ErrCurrentFilmExists = errors.New("current film already exists")

// CurrentFilm 本期影片（單例資源）
type CurrentFilm struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"videoUrl"`
	TeaserURL   string    `json:"teaserUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	LockKey     string    `json:"-"`
}
