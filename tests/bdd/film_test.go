package bdd

import (
	"fmt"
	"testing"

	"media_ingest_service/internal/media/domain"

	"github.com/cucumber/godog"
	// 若要輸出到 os.Stdout 就 import "os"
	"os"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Paths:  []string{"./featureFiles"}, // 指向 feature 檔相對路徑
			Format: "pretty",
			Output: os.Stdout, // 將結果輸出到終端
		},
	}

	// 若 suite.Run() != 0 表示測試失敗，可以讓 t.Fail() 或 t.Fatal()
	if suite.Run() != 0 {
		t.Fail()
	}
}

// 這個函式用來註冊 Gherkin 與 Step Definition 的對應
func InitializeScenario(s *godog.ScenarioContext) {
	// 本期影片單例
	s.Step(`^目前沒有本期影片$`, noCurrentFilm)
	s.Step(`^本期影片已設定為 "([^"]*)"$`, currentFilmIsSet)
	s.Step(`^我設定本期影片 "([^"]*)"$`, iSetCurrentFilm)
	s.Step(`^我清除本期影片$`, iClearCurrentFilm)
	s.Step(`^我查詢本期影片$`, iGetCurrentFilm)
	s.Step(`^我應該得到 "([^"]*)" 的結果$`, iShouldGetResult)
	s.Step(`^本期影片應該是 "([^"]*)"$`, currentFilmShouldBe)

	// 影片上傳
	s.Step(`^我上傳分類 "([^"]*)" 標題 "([^"]*)" 的影片$`, iUploadVideo)
	s.Step(`^上傳結果應該是 "([^"]*)"$`, uploadResultShouldBe)
	s.Step(`^播放入口應該是 "([^"]*)"$`, manifestURLShouldBe)
}

// 以下示例 Step function
var currentFilm *string
var lastFilmResult string
var lastUploadResult string
var lastManifestURL string

func noCurrentFilm() error {
	currentFilm = nil
	return nil
}

func currentFilmIsSet(title string) error {
	currentFilm = &title
	return nil
}

func iSetCurrentFilm(title string) error {
	if currentFilm != nil {
		lastFilmResult = "conflict"
		return nil
	}
	currentFilm = &title
	lastFilmResult = "created"
	return nil
}

func iClearCurrentFilm() error {
	currentFilm = nil
	lastFilmResult = "cleared"
	return nil
}

func iGetCurrentFilm() error {
	if currentFilm == nil {
		lastFilmResult = "not found"
	} else {
		lastFilmResult = "found"
	}
	return nil
}

func iShouldGetResult(expected string) error {
	if lastFilmResult != expected {
		return fmt.Errorf("expected %s, but got %s", expected, lastFilmResult)
	}
	return nil
}

func currentFilmShouldBe(title string) error {
	if currentFilm == nil {
		return fmt.Errorf("expected current film %s, but none is set", title)
	}
	if *currentFilm != title {
		return fmt.Errorf("expected current film %s, but got %s", title, *currentFilm)
	}
	return nil
}

func iUploadVideo(category, title string) error {
	if !domain.ValidCategory(category) {
		lastUploadResult = "error"
		lastManifestURL = ""
		return nil
	}
	slug := domain.Slugify(title)
	if slug == "" {
		lastUploadResult = "error"
		lastManifestURL = ""
		return nil
	}
	lastUploadResult = "complete"
	lastManifestURL = domain.ManifestURL(domain.Category(category), slug)
	return nil
}

func uploadResultShouldBe(expected string) error {
	if lastUploadResult != expected {
		return fmt.Errorf("expected %s, but got %s", expected, lastUploadResult)
	}
	return nil
}

func manifestURLShouldBe(expected string) error {
	if lastManifestURL != expected {
		return fmt.Errorf("expected %s, but got %s", expected, lastManifestURL)
	}
	return nil
}
