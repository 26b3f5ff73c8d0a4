package app

import (
	"os"
	"path/filepath"
	"testing"

	"media_ingest_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

// TestWorkspaceLifecycle 建立 → 落地輸入檔 → 輸出目錄 → 回收
func TestWorkspaceLifecycle(t *testing.T) {
	logger.SetNewNop()
	baseDir := t.TempDir()

	ws, err := NewWorkspace(baseDir)
	assert.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.DirExists(t, ws.Root())

	// 輸入檔名不採用使用者字串，只保留副檔名
	inputPath := ws.InputPath("../../evil name.mp4")
	assert.Equal(t, filepath.Join(ws.Root(), "source.mp4"), inputPath)

	outputDir, err := ws.OutputDir()
	assert.NoError(t, err)
	assert.DirExists(t, outputDir)
	assert.NoError(t, os.WriteFile(filepath.Join(outputDir, "segment_000.ts"), []byte("x"), 0644))

	ws.Release()
	assert.NoDirExists(t, ws.Root())

	entries, err := os.ReadDir(baseDir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

// TestWorkspaceReleaseIdempotent 重複 Release 不會出錯
func TestWorkspaceReleaseIdempotent(t *testing.T) {
	logger.SetNewNop()

	ws, err := NewWorkspace(t.TempDir())
	assert.NoError(t, err)

	ws.Release()
	ws.Release()
	assert.NoDirExists(t, ws.Root())
}

// TestWorkspaceIsolation 兩個 run 各自擁有獨立目錄
func TestWorkspaceIsolation(t *testing.T) {
	logger.SetNewNop()
	baseDir := t.TempDir()

	a, err := NewWorkspace(baseDir)
	assert.NoError(t, err)
	b, err := NewWorkspace(baseDir)
	assert.NoError(t, err)

	assert.NotEqual(t, a.Root(), b.Root())

	a.Release()
	assert.NoDirExists(t, a.Root())
	assert.DirExists(t, b.Root())
	b.Release()
}
