package repository

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"media_ingest_service/internal/media/domain"

	"github.com/stretchr/testify/assert"
)

// TestRetryOnceTransientThenSuccess 瞬斷錯誤透明重試一次，第二次成功就當沒事
func TestRetryOnceTransientThenSuccess(t *testing.T) {
	calls := 0
	err := retryOnce(func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("write failed: %w", syscall.ECONNRESET)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

// TestRetryOnceSecondFailureSurfaces 重試只有一次，第二次的錯誤原樣往上傳
func TestRetryOnceSecondFailureSurfaces(t *testing.T) {
	first := errors.New("connection reset by peer")
	second := errors.New("broken pipe")
	calls := 0
	err := retryOnce(func() error {
		calls++
		if calls == 1 {
			return first
		}
		return second
	})

	assert.Equal(t, second, err)
	assert.Equal(t, 2, calls)
}

// TestRetryOnceNonTransient 非瞬斷錯誤不重試
func TestRetryOnceNonTransient(t *testing.T) {
	boom := errors.New("syntax error at or near")
	calls := 0
	err := retryOnce(func() error {
		calls++
		return boom
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

// TestRetryOnceConflictNotRetried 唯一性衝突是確定性結果，重試只會再衝突一次
func TestRetryOnceConflictNotRetried(t *testing.T) {
	calls := 0
	err := retryOnce(func() error {
		calls++
		return domain.ErrCurrentFilmExists
	})

	assert.ErrorIs(t, err, domain.ErrCurrentFilmExists)
	assert.Equal(t, 1, calls)
}

// TestRetryOnceSuccess 第一次就成功不會多跑
func TestRetryOnceSuccess(t *testing.T) {
	calls := 0
	err := retryOnce(func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

// TestIsTransient 瞬斷分類涵蓋 net 錯誤、連線重置與訊息比對
func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(syscall.ECONNRESET))
	assert.True(t, isTransient(syscall.EPIPE))
	assert.True(t, isTransient(errors.New("read tcp: connection reset by peer")))
	assert.True(t, isTransient(errors.New("write: broken pipe")))
	assert.True(t, isTransient(errors.New("unexpected EOF")))
	assert.False(t, isTransient(nil))
	assert.False(t, isTransient(errors.New("duplicate key value")))
	assert.False(t, isTransient(domain.ErrCurrentFilmExists))
}
