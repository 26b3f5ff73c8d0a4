package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"media_ingest_service/internal/media/app"
	"media_ingest_service/internal/media/domain"
	"media_ingest_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// MaxUploadSize 單一上傳檔案的大小上限 2 GiB
const MaxUploadSize = 2 << 30

// UploadHandler 處理影片與預告片上傳，
// 回應為逐行 JSON 的進度事件流，終態事件後立即結束
type UploadHandler struct {
	Ingest app.IngestUseCase
}

// UploadVideo 接收上傳請求並以事件流回報 pipeline 進度
func (h *UploadHandler) UploadVideo(c *fiber.Ctx) error {
	// 1. 取得並驗證表單欄位，驗證失敗不會進到 pipeline
	title := c.FormValue("title")
	if strings.TrimSpace(title) == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "缺少標題"})
	}
	category := c.FormValue("category")
	if !domain.ValidCategory(category) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "不支援的影片分類"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "未檢測到檔案"})
	}
	if status, msg := validateVideoFile(fileHeader); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "讀取上傳檔案失敗"})
	}

	req := domain.IngestRequest{
		Category:     domain.Category(category),
		Title:        title,
		Description:  c.FormValue("description"),
		ThumbnailOne: c.FormValue("thumbnail_one"),
		ThumbnailTwo: c.FormValue("thumbnail_two"),
		FileName:     fileHeader.Filename,
		File:         file,
	}

	// 2. pipeline 在獨立 goroutine 執行；刻意不使用請求的 context，
	// 客戶端中途斷線時轉碼與上傳仍會跑到結束
	stream := app.NewProgressStream()
	go func() {
		defer file.Close()
		h.Ingest.IngestVideo(context.Background(), req, stream)
	}()

	streamEvents(c, stream)
	return nil
}

// UploadTeaser 上傳預告片，走同一條 pipeline 但使用固定的 teaser prefix
func (h *UploadHandler) UploadTeaser(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "未檢測到檔案"})
	}
	if status, msg := validateVideoFile(fileHeader); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "讀取上傳檔案失敗"})
	}

	stream := app.NewProgressStream()
	fileName := fileHeader.Filename
	go func() {
		defer file.Close()
		h.Ingest.IngestTeaser(context.Background(), fileName, file, stream)
	}()

	streamEvents(c, stream)
	return nil
}

// validateVideoFile 大小與 MIME 驗證，回傳 0 表示通過
func validateVideoFile(fileHeader *multipart.FileHeader) (int, string) {
	if fileHeader.Size > MaxUploadSize {
		return http.StatusRequestEntityTooLarge, "檔案超過 2GiB 上限"
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		return http.StatusBadRequest, "僅接受影片格式的檔案"
	}
	return 0, ""
}

// streamEvents 把事件流逐行以 JSON 寫出，每個事件寫出後立即 flush。
// 寫入失敗（客戶端斷線）後仍持續取走事件直到 channel 關閉，
// 否則 pipeline 會卡在 emit 動彈不得
func streamEvents(c *fiber.Ctx, stream *app.ProgressStream) {
	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		enc := json.NewEncoder(w)
		writeFailed := false
		for ev := range stream.Events() {
			if writeFailed {
				continue
			}
			if err := enc.Encode(ev); err != nil {
				logger.Log.Warn("進度事件寫出失敗，客戶端可能已斷線", zap.Error(err))
				writeFailed = true
				continue
			}
			if err := w.Flush(); err != nil {
				logger.Log.Warn("進度事件 flush 失敗，客戶端可能已斷線", zap.Error(err))
				writeFailed = true
			}
		}
	}))
}
