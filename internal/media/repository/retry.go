package repository

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"media_ingest_service/pkg/logger"

	"go.uber.org/zap"
)

// retryOnce 資料庫呼叫遇到疑似瞬斷錯誤時透明地重試一次，
// 第二次仍失敗就把錯誤往上傳
func retryOnce(op func() error) error {
	err := op()
	if err != nil && isTransient(err) {
		logger.Log.Warn("store call hit a transient error, retrying once", zap.Error(err))
		return op()
	}
	return err
}

// isTransient 判斷是否為連線層級的瞬斷錯誤
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "unexpected EOF")
}
