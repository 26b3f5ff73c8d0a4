package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSlugify 小寫、空白轉底線、非英數剔除
func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Cool Film!", "my_cool_film"},
		{"hello", "hello"},
		{"  Leading and Trailing  ", "leading_and_trailing"},
		{"Tabs\tand\nnewlines", "tabs_and_newlines"},
		{"Numbers 123", "numbers_123"},
		{"UPPER_case", "upper_case"},
		{"中文標題", ""},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.title), tt.title)
	}
}

// TestValidCategory 只接受兩個既定分類
func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("short_films"))
	assert.True(t, ValidCategory("films"))
	assert.False(t, ValidCategory("movies"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("Short_Films"))
}

// TestManifestKeyDerivation 物件 key 與播放 URL 僅由 category+slug 推導
func TestManifestKeyDerivation(t *testing.T) {
	assert.Equal(t, "short_films/my_cool_film", AssetKeyPrefix(CategoryShortFilms, "my_cool_film"))
	assert.Equal(t, "short_films/my_cool_film/output.manifest", ManifestKey(CategoryShortFilms, "my_cool_film"))
	assert.Equal(t, "/stream/films/demo/output.manifest", ManifestURL(CategoryFilms, "demo"))
}

// TestProgressEventPercentClamp 進度事件的 percent 夾在 0~100，0 也要序列化
func TestProgressEventPercentClamp(t *testing.T) {
	ev := NewProgressEvent(StageConverting, -10)
	assert.Equal(t, 0, *ev.Percent)

	data, err := json.Marshal(ev)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"percent":0`)

	ev = NewProgressEvent(StageUploading, 250)
	assert.Equal(t, 100, *ev.Percent)
	assert.False(t, ev.Terminal())
}

// TestTerminalEvents complete 與 error 為終態，progress 不是
func TestTerminalEvents(t *testing.T) {
	assert.True(t, NewCompleteEvent("ok", &Asset{}).Terminal())
	assert.True(t, NewTeaserCompleteEvent("ok", "/stream/short_films/teaser/output.manifest").Terminal())
	assert.True(t, NewErrorEvent("fail").Terminal())
	assert.False(t, NewProgressEvent(StageSaving, 100).Terminal())
}

// TestCurrentFilmLockKeyHidden lock key 不出現在 JSON 回應中
func TestCurrentFilmLockKeyHidden(t *testing.T) {
	film := CurrentFilm{Title: "demo", LockKey: CurrentFilmLockKey}
	data, err := json.Marshal(film)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), CurrentFilmLockKey)
	assert.Contains(t, string(data), `"title":"demo"`)
}
