package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

var (
	DocumentExtensions = []string{".pdf"}
	AudioExtensions    = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}
	ImageExtensions    = []string{".jpg", ".jpeg", ".png"}
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	if rLimit.Cur >= 2048 {
		return
	}
	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	}
}

// FindLatest returns the most recently modified file in dir whose extension
// is one of exts
func FindLatest(dir string, exts []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}

	return latestFile, nil
}

func FindLatestDocument(dir string) (string, error) {
	return FindLatest(dir, DocumentExtensions)
}

func FindLatestAudio(dir string) (string, error) {
	return FindLatest(dir, AudioExtensions)
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func GetAudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

func GetBestH264Encoder() string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}

// DefaultQuality picks a quality value that suits the encoder
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // битрейт = Q*100 кбит/с
	case "h264_nvenc":
		return 28 // эквивалент CRF
	default:
		return 23 // стандартный CRF для x264
	}
}
