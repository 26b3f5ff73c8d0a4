package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"media_ingest_service/internal/media/api/handlers"
	"media_ingest_service/internal/media/api/router"
	"media_ingest_service/internal/media/app"
	"media_ingest_service/internal/media/domain"
	"media_ingest_service/internal/media/repository"
	"media_ingest_service/pkg/config"
	"media_ingest_service/pkg/database"
	"media_ingest_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MediaService, config.EnvConfig.MediaServiceLogPath)

	cfg := config.LoadConfig[config.Media](config.EnvConfig.MediaService, config.EnvConfig.MediaServiceYAMLPath)

	// 1. 連線 PostgreSQL（gorm 給資產記錄、pgx pool 給本期影片單例）
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	db, err := database.NewPGConnection(database.Connection{
		ConnectStr: dsn,

		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", dsn)),
			zap.Error(err),
		)
	}

	pool, err := database.NewPGPool(database.Connection{
		ConnectStr: fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database),

		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL pool after retries", zap.Error(err))
	}
	defer pool.Close()

	// 自動遷移資產資料表與本期影片資料表
	assetRepo := repository.NewAssetRepo(db)
	if err := assetRepo.AutoMigrate(); err != nil {
		log.Fatalf("資產資料表遷移失敗: %v", err)
	}
	filmRepo := repository.NewCurrentFilmRepo(pool)
	if err := filmRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("本期影片資料表建立失敗: %v", err)
	}

	// 2. 初始化 MinIO 客戶端
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:   fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
		User:       cfg.MinIO.User,
		Password:   cfg.MinIO.Password,
		BucketName: cfg.MinIO.BucketName,
		UseSSL:     cfg.MinIO.UseSSL,

		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: cfg.MinIO.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minio after retries", zap.Error(err))
	}

	// 3. 建立 Kafka Writer 供資產發布事件使用
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: cfg.Kafka.RetryInterval,
	})
	if err != nil {
		log.Fatalf("Kafka Writer 建立失敗: %v", err)
	}
	defer kafkaWriter.Close()

	// 4. 建立 Redis 列表快取
	redisClient, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		log.Fatalf("Redis 連線失敗: %v", err)
	}
	listCache := database.NewRedisRepository[[]domain.Asset](redisClient)

	// 5. 準備上傳工作目錄
	workspaceBase := cfg.WorkspaceDir
	if workspaceBase == "" {
		workspaceBase = "./tmp"
	}
	if err := os.MkdirAll(workspaceBase, 0755); err != nil {
		log.Fatalf("建立上傳工作目錄失敗: %v", err)
	}

	publisher := app.NewSegmentPublisher(minioClient)
	ingestUC := app.NewIngestUseCase(workspaceBase, app.NewFFmpegTranscoder(), publisher, assetRepo, kafkaWriter, listCache)
	catalogUC := app.NewCatalogUseCase(assetRepo, minioClient, listCache)
	filmUC := app.NewCurrentFilmUseCase(filmRepo)

	// 6. 建立 Fiber 應用，BodyLimit 留一點空間給表單欄位
	r := fiber.New(fiber.Config{
		BodyLimit: handlers.MaxUploadSize + 10*1024*1024,
	})

	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MediaServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// 7. 設定 API 路由
	router.RegisterRoutes(r,
		&handlers.UploadHandler{Ingest: ingestUC},
		&handlers.CatalogHandler{Catalog: catalogUC},
		&handlers.FilmHandler{Film: filmUC},
	)

	// 8. 啟動 API 服務
	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
