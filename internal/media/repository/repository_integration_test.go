package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"

	"media_ingest_service/internal/media/domain"
	"media_ingest_service/pkg/database"
	"media_ingest_service/pkg/logger"
	testtool "media_ingest_service/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// **測試用的容器**
var postgresContainer testcontainers.Container

// **Repository**
var testAssetRepo AssetRepo
var filmRepo CurrentFilmRepo

func TestMain(m *testing.M) {
	logger.SetNewNop()
	ctx := context.Background()

	// **啟動 PostgreSQL**
	postgresContainer, postgresHost, postgresPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image: "postgres:latest",
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start PostgreSQL container: %v", err)
	}
	fmt.Printf("✅ PostgreSQL running at %s:%s\n", postgresHost, postgresPort)

	connectStr := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", postgresHost, postgresPort)

	// **初始化 gorm 連線（資產記錄）**
	gormDB, err := database.NewPGConnection(database.Connection{
		ConnectStr:    connectStr,
		RetryCount:    5,
		RetryInterval: 5,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}

	// **初始化 pgx pool（本期影片單例）**
	pgPool, err := database.NewPGPool(database.Connection{
		ConnectStr:    connectStr,
		RetryCount:    5,
		RetryInterval: 5,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL pool: %v", err)
	}

	// **建立資料表**
	testAssetRepo = NewAssetRepo(gormDB)
	if err := testAssetRepo.AutoMigrate(); err != nil {
		log.Fatalf("❌ Asset migration failed: %v", err)
	}
	filmRepo = NewCurrentFilmRepo(pgPool)
	if err := filmRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("❌ Current film migration failed: %v", err)
	}

	// **執行測試**
	code := m.Run()

	// **停止測試容器**
	_ = postgresContainer.Terminate(ctx)

	os.Exit(code)
}

// **測試資產記錄的完整生命週期**
func TestAssetRepoCRUD(t *testing.T) {
	var createdID uint

	t.Run("建立資產", func(t *testing.T) {
		asset := &domain.Asset{
			Category:    string(domain.CategoryShortFilms),
			Title:       "My Cool Film!",
			Description: "integration test asset",
			ManifestURL: domain.ManifestURL(domain.CategoryShortFilms, "my_cool_film"),
		}
		err := testAssetRepo.Create(asset)

		assert.NoError(t, err)
		assert.NotZero(t, asset.ID)
		createdID = asset.ID
		fmt.Println("✅ Asset created:", asset.ID)
	})

	t.Run("依 id 查詢", func(t *testing.T) {
		asset, err := testAssetRepo.GetByID(createdID)

		assert.NoError(t, err)
		assert.NotNil(t, asset)
		assert.Equal(t, "My Cool Film!", asset.Title)
		assert.Equal(t, "/stream/short_films/my_cool_film/output.manifest", asset.ManifestURL)
	})

	t.Run("查無資料回傳 nil", func(t *testing.T) {
		asset, err := testAssetRepo.GetByID(999999)

		assert.NoError(t, err)
		assert.Nil(t, asset)
	})

	t.Run("列表由新到舊", func(t *testing.T) {
		second := &domain.Asset{
			Category:    string(domain.CategoryFilms),
			Title:       "Second Film",
			ManifestURL: domain.ManifestURL(domain.CategoryFilms, "second_film"),
		}
		assert.NoError(t, testAssetRepo.Create(second))

		assets, err := testAssetRepo.List(10)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, len(assets), 2)
	})

	t.Run("limit 必須為正整數", func(t *testing.T) {
		_, err := testAssetRepo.List(0)
		assert.Error(t, err)
	})

	t.Run("刪除資產", func(t *testing.T) {
		deleted, err := testAssetRepo.Delete(createdID)
		assert.NoError(t, err)
		assert.True(t, deleted)

		asset, err := testAssetRepo.GetByID(createdID)
		assert.NoError(t, err)
		assert.Nil(t, asset)
	})

	t.Run("刪除不存在的 id", func(t *testing.T) {
		deleted, err := testAssetRepo.Delete(999999)
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}

// **測試本期影片單例：併發建立只有一個勝者**
func TestCurrentFilmSingleton(t *testing.T) {
	ctx := context.Background()

	// 清掉先前測試可能留下的記錄
	_, err := filmRepo.Delete(ctx)
	assert.NoError(t, err)

	t.Run("併發建立只有一個成功", func(t *testing.T) {
		const workers = 8
		var wg sync.WaitGroup
		results := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = filmRepo.Create(ctx, &domain.CurrentFilm{
					Title:    fmt.Sprintf("contender-%d", idx),
					VideoURL: "/stream/films/demo/output.manifest",
					LockKey:  domain.CurrentFilmLockKey,
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, domain.ErrCurrentFilmExists)
			}
		}
		assert.Equal(t, 1, succeeded)
		fmt.Println("✅ Singleton create: exactly one winner")
	})

	t.Run("重複建立回傳衝突且原記錄不變", func(t *testing.T) {
		before, err := filmRepo.Get(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, before)

		err = filmRepo.Create(ctx, &domain.CurrentFilm{
			Title:    "usurper",
			VideoURL: "/stream/films/other/output.manifest",
			LockKey:  domain.CurrentFilmLockKey,
		})
		assert.ErrorIs(t, err, domain.ErrCurrentFilmExists)

		after, err := filmRepo.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, before.Title, after.Title)
	})

	t.Run("清除後可重新建立", func(t *testing.T) {
		cleared, err := filmRepo.Delete(ctx)
		assert.NoError(t, err)
		assert.True(t, cleared)

		film, err := filmRepo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, film)

		err = filmRepo.Create(ctx, &domain.CurrentFilm{
			Title:    "fresh start",
			VideoURL: "/stream/films/fresh/output.manifest",
			LockKey:  domain.CurrentFilmLockKey,
		})
		assert.NoError(t, err)
		fmt.Println("✅ Singleton recreate after clear")
	})

	t.Run("再清空一次是 no-op", func(t *testing.T) {
		cleared, err := filmRepo.Delete(ctx)
		assert.NoError(t, err)
		assert.True(t, cleared)

		cleared, err = filmRepo.Delete(ctx)
		assert.NoError(t, err)
		assert.False(t, cleared)
	})
}
