package domain

// EventType 進度事件種類
type EventType string

const (
	// EventProgress 階段進度事件
	EventProgress EventType = "progress"
	// EventComplete 成功終態事件，整條 pipeline 只會有一個終態
	EventComplete EventType = "complete"
	// EventError 失敗終態事件
	EventError EventType = "error"
)

// PipelineStage 進度事件對應的 pipeline 階段
type PipelineStage string

const (
	// StageConverting 轉碼中
	StageConverting PipelineStage = "converting"
	// StageUploading 分段上傳中
	StageUploading PipelineStage = "uploading"
	// StageSaving 寫入資料庫中
	StageSaving PipelineStage = "saving"
)

// ProgressEvent 推送給上傳客戶端的事件，以單行 JSON 輸出
type ProgressEvent struct {
	Type      EventType     `json:"type"`
	Stage     PipelineStage `json:"stage,omitempty"`
	Percent   *int          `json:"percent,omitempty"`
	Message   string        `json:"message,omitempty"`
	TeaserURL string        `json:"teaserUrl,omitempty"`
	Asset     *Asset        `json:"asset,omitempty"`
}

// NewProgressEvent 建立階段進度事件，percent 一律夾在 0~100 之間
func NewProgressEvent(stage PipelineStage, percent int) ProgressEvent {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return ProgressEvent{Type: EventProgress, Stage: stage, Percent: &percent}
}

// NewCompleteEvent 建立影片發布成功的終態事件
func NewCompleteEvent(message string, asset *Asset) ProgressEvent {
	return ProgressEvent{Type: EventComplete, Message: message, Asset: asset}
}

// NewTeaserCompleteEvent 建立預告片上傳成功的終態事件
func NewTeaserCompleteEvent(message, teaserURL string) ProgressEvent {
	return ProgressEvent{Type: EventComplete, Message: message, TeaserURL: teaserURL}
}

// NewErrorEvent 建立失敗終態事件
func NewErrorEvent(message string) ProgressEvent {
	return ProgressEvent{Type: EventError, Message: message}
}

// Terminal 是否為終態事件
func (e ProgressEvent) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}
