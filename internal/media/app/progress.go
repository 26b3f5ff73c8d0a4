package app

import (
	"sync"

	"media_ingest_service/internal/media/domain"
)

// ProgressStream 單次上傳請求的進度事件流，
// 單一生產者（pipeline）、單一消費者（HTTP 回應寫入端），
// 事件嚴格依序送出，終態事件恰好一個，送出後即關閉
type ProgressStream struct {
	events chan domain.ProgressEvent

	mu     sync.Mutex
	closed bool
}

// NewProgressStream 建立事件流，channel 不帶緩衝，
// 每個事件都要等消費端取走才會進到下一個 pipeline 階段
func NewProgressStream() *ProgressStream {
	return &ProgressStream{
		events: make(chan domain.ProgressEvent),
	}
}

// Events 消費端讀取事件的 channel，終態事件後隨即關閉
func (s *ProgressStream) Events() <-chan domain.ProgressEvent {
	return s.events
}

// Progress 送出階段進度事件，percent 超出範圍會被夾回 0~100
func (s *ProgressStream) Progress(stage domain.PipelineStage, percent int) {
	s.emit(domain.NewProgressEvent(stage, percent))
}

// Complete 送出影片發布成功的終態事件並關閉事件流
func (s *ProgressStream) Complete(message string, asset *domain.Asset) {
	s.emit(domain.NewCompleteEvent(message, asset))
}

// CompleteTeaser 送出預告片上傳成功的終態事件並關閉事件流
func (s *ProgressStream) CompleteTeaser(message, teaserURL string) {
	s.emit(domain.NewTeaserCompleteEvent(message, teaserURL))
}

// Fail 送出失敗終態事件並關閉事件流
func (s *ProgressStream) Fail(message string) {
	s.emit(domain.NewErrorEvent(message))
}

// emit 終態事件之後的任何事件都會被丟棄，確保終態恰好一個
func (s *ProgressStream) emit(ev domain.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.events <- ev
	if ev.Terminal() {
		s.closed = true
		close(s.events)
	}
}
