package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"media_ingest_service/internal/media/domain"
	"media_ingest_service/pkg/logger"

	"go.uber.org/zap"
)

// HLSResult 轉碼輸出：一個播放清單加上一批依序編號的分段檔
type HLSResult struct {
	ManifestPath string
	SegmentPaths []string
}

// Transcoder 外部轉碼工具的抽象，onProgress 會收到 0~100 的完成度
type Transcoder interface {
	TranscodeToHLS(ctx context.Context, inputPath, outputDir string, onProgress func(percent int)) (*HLSResult, error)
}

// FFmpegTranscoder 以 ffmpeg 實作固定轉碼規格：
// H.264 1500k / AAC 128k、縮放至 1280x720、4 秒分段、VOD 播放清單，
// 規格不開放設定
type FFmpegTranscoder struct{}

// NewFFmpegTranscoder create a FFmpegTranscoder
func NewFFmpegTranscoder() *FFmpegTranscoder {
	return &FFmpegTranscoder{}
}

// 讓測試可以替換外部程序的包裝函數
var (
	probeOutput = func(ctx context.Context, inputPath string) ([]byte, error) {
		return exec.CommandContext(ctx, "ffprobe",
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			inputPath,
		).Output()
	}

	newFFmpegCmd = func(ctx context.Context, args []string) *exec.Cmd {
		return exec.CommandContext(ctx, "ffmpeg", args...)
	}
)

// buildFFmpegArgs 固定轉碼參數，-progress pipe:1 讓進度以 key=value 形式走 stdout
func buildFFmpegArgs(inputPath, outputDir string) []string {
	return []string{
		"-i", inputPath,
		"-c:v", "libx264",
		"-b:v", "1500k",
		"-c:a", "aac",
		"-b:a", "128k",
		"-vf", "scale=1280:720",
		"-f", "hls",
		"-hls_time", "4",
		"-hls_list_size", "0",
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", filepath.Join(outputDir, domain.SegmentFilePattern),
		"-progress", "pipe:1",
		"-nostats",
		"-y",
		filepath.Join(outputDir, domain.ManifestFileName),
	}
}

// probeDuration 以 ffprobe 取得影片長度（秒），進度百分比以此為分母
func probeDuration(ctx context.Context, inputPath string) (float64, error) {
	out, err := probeOutput(ctx, inputPath)
	if err != nil {
		return 0, fmt.Errorf("ffprobe 解析影片失敗: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || duration <= 0 {
		return 0, fmt.Errorf("ffprobe 回傳的影片長度無效: %q", strings.TrimSpace(string(out)))
	}
	return duration, nil
}

// progressPercent 將 ffmpeg 回報的 out_time_ms（微秒）換算成 0~100 的百分比
func progressPercent(outTimeUS int64, durationSec float64) int {
	if durationSec <= 0 {
		return 0
	}
	percent := int(float64(outTimeUS) / (durationSec * 1e6) * 100)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent
}

// TranscodeToHLS 將輸入檔轉成 HLS 分段輸出，
// 轉碼過程中透過 onProgress 回報完成度，
// ffmpeg 正常結束但沒有產生任何輸出檔也視為失敗
func (t *FFmpegTranscoder) TranscodeToHLS(ctx context.Context, inputPath, outputDir string, onProgress func(percent int)) (*HLSResult, error) {
	duration, err := probeDuration(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	cmd := newFFmpegCmd(ctx, buildFFmpegArgs(inputPath, outputDir))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("取得 ffmpeg stdout 失敗: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("啟動 ffmpeg 失敗: %w", err)
	}

	// 逐行讀取 -progress 輸出，out_time_ms 實際單位是微秒
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		value, ok := strings.CutPrefix(line, "out_time_ms=")
		if !ok {
			continue
		}
		outTimeUS, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}
		if onProgress != nil {
			onProgress(progressPercent(outTimeUS, duration))
		}
	}

	if err := cmd.Wait(); err != nil {
		logger.Log.Error("ffmpeg 轉碼失敗",
			zap.String("input", inputPath),
			zap.String("stderr", tail(stderr.String(), 2048)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("ffmpeg 轉碼失敗: %w", err)
	}

	return collectHLSOutput(outputDir)
}

// collectHLSOutput 整理輸出目錄，播放清單缺失或分段數為零都視為轉碼失敗
func collectHLSOutput(outputDir string) (*HLSResult, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("讀取轉碼輸出目錄失敗: %w", err)
	}

	result := &HLSResult{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(outputDir, e.Name())
		switch {
		case e.Name() == domain.ManifestFileName:
			result.ManifestPath = path
		case filepath.Ext(e.Name()) == ".ts":
			result.SegmentPaths = append(result.SegmentPaths, path)
		}
	}
	sort.Strings(result.SegmentPaths)

	if result.ManifestPath == "" {
		return nil, fmt.Errorf("轉碼完成但找不到播放清單 %s", domain.ManifestFileName)
	}
	if len(result.SegmentPaths) == 0 {
		return nil, fmt.Errorf("轉碼完成但沒有任何分段檔")
	}
	return result, nil
}

// tail 擷取字串結尾最多 n 個位元組，避免整段 stderr 灌進日誌
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
