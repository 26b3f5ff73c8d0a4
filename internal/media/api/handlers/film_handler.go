package handlers

import (
	"errors"
	"net/http"
	"strings"

	"media_ingest_service/internal/media/app"
	"media_ingest_service/internal/media/domain"

	"github.com/gofiber/fiber/v2"
)

// FilmHandler 本期影片單例資源
type FilmHandler struct {
	Film app.CurrentFilmUseCase
}

// CreateCurrentFilm 建立本期影片，重複建立回 409 且原記錄不變
func (h *FilmHandler) CreateCurrentFilm(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"videoUrl"`
		TeaserURL   string `json:"teaserUrl"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "無效的請求內容"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.VideoURL) == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "缺少標題或影片 URL"})
	}

	film, err := h.Film.Create(c.Context(), &domain.CurrentFilm{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		TeaserURL:   req.TeaserURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCurrentFilmExists) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "本期影片已存在"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "建立本期影片失敗"})
	}
	return c.Status(http.StatusCreated).JSON(film)
}

// GetCurrentFilm 取得本期影片
func (h *FilmHandler) GetCurrentFilm(c *fiber.Ctx) error {
	film, err := h.Film.Get(c.Context())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "查詢本期影片失敗"})
	}
	if film == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "尚未設定本期影片"})
	}
	return c.JSON(film)
}

// DeleteCurrentFilm 清空本期影片欄位，清空後即可重新建立
func (h *FilmHandler) DeleteCurrentFilm(c *fiber.Ctx) error {
	cleared, err := h.Film.Clear(c.Context())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "清除本期影片失敗"})
	}
	if !cleared {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "尚未設定本期影片"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
