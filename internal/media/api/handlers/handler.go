package handlers

import (
	"media_ingest_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ConnectCheck 服務存活檢查
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("connect success")
}

// DebugLogFlag 切換 DEBUG 日誌輸出
func DebugLogFlag(c *fiber.Ctx) error {
	var req struct {
		Enable bool `json:"enable"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "無效的請求內容"})
	}
	logger.Log.SetDebugMode(req.Enable)
	return c.JSON(fiber.Map{"debug": req.Enable})
}
