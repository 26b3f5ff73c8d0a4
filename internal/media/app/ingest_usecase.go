package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"media_ingest_service/internal/media/domain"
	"media_ingest_service/internal/media/repository"
	"media_ingest_service/pkg/database"
	errprocess "media_ingest_service/pkg/err"
	"media_ingest_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// IngestUseCase 媒體上傳 pipeline 對外提供的應用服務，
// 兩個操作都會自己收尾：終態事件恰好一個、工作目錄必定回收，
// 任何階段失敗都不會讓錯誤越過這一層往外拋
type IngestUseCase interface {
	IngestVideo(ctx context.Context, req domain.IngestRequest, stream *ProgressStream)
	IngestTeaser(ctx context.Context, fileName string, file io.Reader, stream *ProgressStream)
}

type ingestUseCase struct {
	workspaceBase string
	transcoder    Transcoder
	publisher     *SegmentPublisher
	assetRepo     repository.AssetRepo
	kafkaWriter   database.KafkaRepo
	listCache     database.RedisRepository[[]domain.Asset]
}

// NewIngestUseCase 建立一個新的 IngestUseCase
func NewIngestUseCase(
	workspaceBase string,
	transcoder Transcoder,
	publisher *SegmentPublisher,
	assetRepo repository.AssetRepo,
	kafkaWriter database.KafkaRepo,
	listCache database.RedisRepository[[]domain.Asset],
) IngestUseCase {
	return &ingestUseCase{
		workspaceBase: workspaceBase,
		transcoder:    transcoder,
		publisher:     publisher,
		assetRepo:     assetRepo,
		kafkaWriter:   kafkaWriter,
		listCache:     listCache,
	}
}

// 讓測試 mock 使用的包裝函數
var (
	createFile = func(name string) (*os.File, error) {
		return os.Create(name)
	}

	copyFile = func(dst *os.File, src io.Reader) (written int64, err error) {
		return io.Copy(dst, src)
	}
)

// assetPublishedEvent 發布成功後送進 Kafka 的通知訊息
type assetPublishedEvent struct {
	AssetID     uint   `json:"asset_id,omitempty"`
	Category    string `json:"category"`
	Slug        string `json:"slug"`
	ManifestURL string `json:"manifest_url"`
}

// IngestVideo 完整的影片上傳 pipeline：
// 1. 建立隔離工作目錄並落地原始檔
// 2. ffmpeg 轉碼成 HLS，進度轉發為 converting 事件
// 3. 平行上傳播放清單與全部分段，完成後發 uploading 事件
// 4. 寫入資產記錄（manifest URL 只在上傳全數成功後才會落庫）
// 5. 發出 complete 終態事件
// 工作目錄在每一條路徑上都會被回收
func (u *ingestUseCase) IngestVideo(ctx context.Context, req domain.IngestRequest, stream *ProgressStream) {
	slug := domain.Slugify(req.Title)
	if slug == "" {
		errprocess.Set(fmt.Sprintf("title[%s] 無法產生有效的儲存路徑", req.Title))
		stream.Fail("標題無法產生有效的儲存路徑")
		return
	}

	prefix := domain.AssetKeyPrefix(req.Category, slug)
	if !u.runPipeline(ctx, prefix, req.FileName, req.File, stream) {
		return
	}

	stream.Progress(domain.StageSaving, 100)

	asset := &domain.Asset{
		Category:     string(req.Category),
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailOne: req.ThumbnailOne,
		ThumbnailTwo: req.ThumbnailTwo,
		ManifestURL:  domain.ManifestURL(req.Category, slug),
	}
	if err := u.assetRepo.Create(asset); err != nil {
		errprocess.Set(fmt.Sprintf("prefix[%s] 資料庫建立資產失敗 : %v", prefix, err))
		stream.Fail("資產記錄寫入失敗")
		return
	}

	u.invalidateListCache(ctx)
	u.publishAssetEvent(ctx, assetPublishedEvent{
		AssetID:     asset.ID,
		Category:    asset.Category,
		Slug:        slug,
		ManifestURL: asset.ManifestURL,
	})

	stream.Complete("影片發布完成", asset)
}

// IngestTeaser 預告片走同一條 pipeline，但使用固定的 key prefix，
// 重複上傳會覆蓋前一版預告片，也不寫資產記錄，
// 成功時終態事件帶回 teaser URL 供 current film 建立時引用
func (u *ingestUseCase) IngestTeaser(ctx context.Context, fileName string, file io.Reader, stream *ProgressStream) {
	if !u.runPipeline(ctx, domain.TeaserKeyPrefix, fileName, file, stream) {
		return
	}

	stream.Progress(domain.StageSaving, 100)

	teaserURL := "/stream/" + domain.TeaserKeyPrefix + "/" + domain.ManifestFileName
	u.publishAssetEvent(ctx, assetPublishedEvent{
		Category:    string(domain.CategoryShortFilms),
		Slug:        "teaser",
		ManifestURL: teaserURL,
	})

	stream.CompleteTeaser("預告片上傳完成", teaserURL)
}

// runPipeline 執行 暫存 → 轉碼 → 上傳 三個階段，
// 失敗時自行發出 error 終態事件並回傳 false
func (u *ingestUseCase) runPipeline(ctx context.Context, prefix, fileName string, file io.Reader, stream *ProgressStream) bool {
	ws, err := NewWorkspace(u.workspaceBase)
	if err != nil {
		errprocess.Set(fmt.Sprintf("prefix[%s] 建立工作目錄失敗 : %v", prefix, err))
		stream.Fail("建立暫存空間失敗")
		return false
	}
	defer ws.Release()

	inputPath := ws.InputPath(fileName)
	inputFile, err := createFile(inputPath)
	if err != nil {
		errprocess.Set(fmt.Sprintf("prefix[%s] 建立暫存檔案失敗 : %v", prefix, err))
		stream.Fail("暫存上傳檔案失敗")
		return false
	}
	if _, err := copyFile(inputFile, file); err != nil {
		inputFile.Close()
		errprocess.Set(fmt.Sprintf("prefix[%s] 寫入暫存檔案失敗 : %v", prefix, err))
		stream.Fail("暫存上傳檔案失敗")
		return false
	}
	inputFile.Close()

	outputDir, err := ws.OutputDir()
	if err != nil {
		errprocess.Set(fmt.Sprintf("prefix[%s] 建立轉碼輸出目錄失敗 : %v", prefix, err))
		stream.Fail("建立暫存空間失敗")
		return false
	}

	// 轉碼失敗就到此為止，不會有任何物件被上傳
	if _, err := u.transcoder.TranscodeToHLS(ctx, inputPath, outputDir, func(percent int) {
		stream.Progress(domain.StageConverting, percent)
	}); err != nil {
		errprocess.Set(fmt.Sprintf("prefix[%s] 轉碼失敗 : %v", prefix, err))
		stream.Fail("影片轉碼失敗")
		return false
	}

	// 任一檔案上傳失敗整批視為失敗，資產記錄不會寫入；
	// 已上傳的物件留在原地，重跑同標題會以相同 prefix 覆蓋
	uploaded, err := u.publisher.PublishDir(ctx, outputDir, prefix)
	if err != nil {
		errprocess.Set(fmt.Sprintf("prefix[%s] 分段上傳失敗 : %v", prefix, err))
		stream.Fail("分段上傳失敗")
		return false
	}

	logger.Log.Info("分段上傳完成",
		zap.String("prefix", prefix),
		zap.String("run_id", ws.ID),
		zap.Int("files", uploaded),
	)
	stream.Progress(domain.StageUploading, 100)
	return true
}

// publishAssetEvent 發布通知為盡力而為，失敗只記日誌、不影響 pipeline 結果
func (u *ingestUseCase) publishAssetEvent(ctx context.Context, ev assetPublishedEvent) {
	if u.kafkaWriter == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Warn("資產發布事件序列化失敗", zap.Error(err))
		return
	}
	if err := u.kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Slug),
		Value: data,
	}); err != nil {
		logger.Log.Warn("資產發布事件送出失敗", zap.String("slug", ev.Slug), zap.Error(err))
	}
}

// invalidateListCache 資產集合變動後清掉列表快取
func (u *ingestUseCase) invalidateListCache(ctx context.Context) {
	if u.listCache == nil {
		return
	}
	if err := u.listCache.Del(ctx, recentAssetsCacheKey); err != nil {
		logger.Log.Warn("清除資產列表快取失敗", zap.Error(err))
	}
}
