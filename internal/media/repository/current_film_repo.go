package repository

import (
	"context"
	"errors"

	"media_ingest_service/internal/media/domain"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// pgUniqueViolation PostgreSQL 唯一約束違反的錯誤碼
const pgUniqueViolation = "23505"

// CurrentFilmRepo definition get current film info
type CurrentFilmRepo interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, film *domain.CurrentFilm) error
	Get(ctx context.Context) (*domain.CurrentFilm, error)
	Delete(ctx context.Context) (bool, error)
}

type currentFilmRepo struct {
	db *pgxpool.Pool
}

// NewCurrentFilmRepo create a CurrentFilmRepo
func NewCurrentFilmRepo(db *pgxpool.Pool) CurrentFilmRepo {
	return &currentFilmRepo{db: db}
}

// EnsureSchema 建立 current_film 資料表，lock_key 上的唯一約束
// 讓資料庫層保證全表最多一筆資料
func (r *currentFilmRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS current_film (
			id          SERIAL PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			video_url   TEXT NOT NULL,
			teaser_url  TEXT NOT NULL DEFAULT '',
			lock_key    TEXT NOT NULL DEFAULT 'current',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT current_film_lock_key_key UNIQUE (lock_key)
		)`)
	return err
}

// Create 插入單例記錄，不做 check-then-insert，
// 併發下由唯一約束決定唯一勝者，衝突轉譯為 domain.ErrCurrentFilmExists
func (r *currentFilmRepo) Create(ctx context.Context, film *domain.CurrentFilm) error {
	return retryOnce(func() error {
		err := r.db.QueryRow(ctx,
			`INSERT INTO current_film (title, description, video_url, teaser_url, lock_key)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at, updated_at`,
			film.Title, film.Description, film.VideoURL, film.TeaserURL, film.LockKey,
		).Scan(&film.ID, &film.CreatedAt, &film.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return domain.ErrCurrentFilmExists
			}
			return err
		}
		return nil
	})
}

// Get 取得本期影片，查無資料回傳 (nil, nil) 而非錯誤
func (r *currentFilmRepo) Get(ctx context.Context) (*domain.CurrentFilm, error) {
	var f domain.CurrentFilm
	err := retryOnce(func() error {
		return r.db.QueryRow(ctx,
			`SELECT id, title, description, video_url, teaser_url, lock_key, created_at, updated_at
			 FROM current_film
			 WHERE lock_key = $1`,
			domain.CurrentFilmLockKey,
		).Scan(&f.ID, &f.Title, &f.Description, &f.VideoURL, &f.TeaserURL, &f.LockKey, &f.CreatedAt, &f.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// Delete 無條件清空單例欄位，回傳 false 表示原本就是空的
func (r *currentFilmRepo) Delete(ctx context.Context) (bool, error) {
	var deleted bool
	err := retryOnce(func() error {
		tag, err := r.db.Exec(ctx, "DELETE FROM current_film WHERE lock_key = $1", domain.CurrentFilmLockKey)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	return deleted, err
}
