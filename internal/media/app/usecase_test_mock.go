package app

import (
	"context"
	"time"

	"media_ingest_service/internal/media/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

// MockMinIOClient 是 MinIOClientRepo 的 Mock
type MockMinIOClient struct {
	mock.Mock
}

// UploadFile 模擬 MinIO 上傳行為
func (m *MockMinIOClient) UploadFile(ctx context.Context, objectName, filePath, contentType string) error {
	args := m.Called(ctx, objectName, filePath, contentType)
	return args.Error(0)
}

// PresignGetURL 模擬 MinIO presign url
func (m *MockMinIOClient) PresignGetURL(ctx context.Context, objectName, responseContentType string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, responseContentType, expiry)
	return args.Get(0).(string), args.Error(1)
}

// MockAssetRepo 是 AssetRepo 的 Mock
type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// Create 模擬寫入資產記錄
func (m *MockAssetRepo) Create(asset *domain.Asset) error {
	args := m.Called(asset)
	return args.Error(0)
}

// GetByID 模擬依 id 查詢
func (m *MockAssetRepo) GetByID(id uint) (*domain.Asset, error) {
	args := m.Called(id)
	if a := args.Get(0); a != nil {
		return a.(*domain.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

// List 模擬列出資產
func (m *MockAssetRepo) List(limit int) ([]domain.Asset, error) {
	args := m.Called(limit)
	if a := args.Get(0); a != nil {
		return a.([]domain.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete 模擬刪除資產記錄
func (m *MockAssetRepo) Delete(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// MockCurrentFilmRepo 是 CurrentFilmRepo 的 Mock
type MockCurrentFilmRepo struct {
	mock.Mock
}

func (m *MockCurrentFilmRepo) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Create 模擬單例插入
func (m *MockCurrentFilmRepo) Create(ctx context.Context, film *domain.CurrentFilm) error {
	args := m.Called(ctx, film)
	return args.Error(0)
}

// Get 模擬查詢本期影片
func (m *MockCurrentFilmRepo) Get(ctx context.Context) (*domain.CurrentFilm, error) {
	args := m.Called(ctx)
	if f := args.Get(0); f != nil {
		return f.(*domain.CurrentFilm), args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete 模擬清空單例欄位
func (m *MockCurrentFilmRepo) Delete(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// MockTranscoder 是 Transcoder 的 Mock
type MockTranscoder struct {
	mock.Mock
}

// TranscodeToHLS 模擬轉碼，測試可在 Run 內建立輸出檔並觸發 onProgress
func (m *MockTranscoder) TranscodeToHLS(ctx context.Context, inputPath, outputDir string, onProgress func(percent int)) (*HLSResult, error) {
	args := m.Called(ctx, inputPath, outputDir, onProgress)
	if r := args.Get(0); r != nil {
		return r.(*HLSResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockKafkaWriter 是 KafkaRepo 的 Mock
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

// MockListCache 是 RedisRepository[[]domain.Asset] 的 Mock
type MockListCache struct {
	mock.Mock
}

func (m *MockListCache) Set(ctx context.Context, key string, value []domain.Asset, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockListCache) Get(ctx context.Context, key string) ([]domain.Asset, bool, error) {
	args := m.Called(ctx, key)
	if a := args.Get(0); a != nil {
		return a.([]domain.Asset), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *MockListCache) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
