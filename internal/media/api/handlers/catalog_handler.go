package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"media_ingest_service/internal/media/app"
	"media_ingest_service/internal/media/domain"
	"media_ingest_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler 已發布資產的查詢、刪除與播放轉址
type CatalogHandler struct {
	Catalog app.CatalogUseCase
}

// ListAssets 由新到舊列出資產
func (h *CatalogHandler) ListAssets(c *fiber.Ctx) error {
	limit := app.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			logger.Log.Infof("ListAssets limit 參數無效，改用預設值 :", raw)
		} else {
			limit = parsed
		}
	}

	assets, err := h.Catalog.ListAssets(c.Context(), limit)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "列出資產失敗"})
	}
	return c.JSON(assets)
}

// GetAsset 依 id 取得資產
func (h *CatalogHandler) GetAsset(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "無效的資產 id"})
	}

	asset, err := h.Catalog.GetAsset(c.Context(), uint(id))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "查詢資產失敗"})
	}
	if asset == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "找不到資產"})
	}
	return c.JSON(asset)
}

// DeleteAsset 刪除資產記錄；物件儲存上的分段檔不在此處清理
func (h *CatalogHandler) DeleteAsset(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "無效的資產 id"})
	}

	deleted, err := h.Catalog.DeleteAsset(c.Context(), uint(id))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "刪除資產失敗"})
	}
	if !deleted {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "找不到資產"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// Stream 播放轉址：每次請求重新簽發 10 分鐘效期的簽名 URL 並回 302
func (h *CatalogHandler) Stream(c *fiber.Ctx) error {
	category := c.Params("category")
	slug := c.Params("slug")
	filename := c.Params("filename")

	url, _, err := h.Catalog.PlaybackURL(c.Context(), category, slug, filename)
	if err != nil {
		// 路徑驗證失敗是客戶端問題，簽發端故障才是伺服器問題
		if errors.Is(err, domain.ErrInvalidPlaybackPath) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "無效的播放路徑"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "無法簽發播放 URL"})
	}
	return c.Redirect(url, http.StatusFound)
}
