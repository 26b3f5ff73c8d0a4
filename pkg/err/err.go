package errprocess

import (
	"errors"

	"media_ingest_service/pkg/logger"
)

// Set 記錄錯誤訊息並回傳 error，確保底層原因一定進到日誌
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}
