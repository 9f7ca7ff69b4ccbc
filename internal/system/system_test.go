package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	names := []string{"old.mp3", "new.WAV", "skip.txt"}
	for i, n := range names {
		p := filepath.Join(dir, n)
		os.WriteFile(p, []byte("x"), 0644)
		mod := time.Now().Add(time.Duration(i) * time.Minute)
		os.Chtimes(p, mod, mod)
	}

	got, err := FindLatestAudio(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "new.WAV" {
		t.Errorf("FindLatestAudio = %s", got)
	}

	if _, err := FindLatestDocument(dir); err == nil {
		t.Error("expected no documents")
	}
}

func TestBudget(t *testing.T) {
	b := RecommendBudget(3, 1280*720*4)
	if b.Workers != 3 {
		t.Errorf("Workers = %d, want 3", b.Workers)
	}
	if b.InFlight < b.Workers {
		t.Errorf("InFlight %d < Workers %d", b.InFlight, b.Workers)
	}

	auto := RecommendBudget(0, 0)
	if auto.Workers < 1 || auto.InFlight != auto.Workers*4 {
		t.Errorf("auto budget %+v", auto)
	}

	if got := clampBudget(0, 0); got.Workers != 1 || got.InFlight != 1 {
		t.Errorf("clampBudget(0,0) = %+v", got)
	}
}

func TestDefaultQuality(t *testing.T) {
	if DefaultQuality("libx264") != 23 || DefaultQuality("h264_nvenc") != 28 || DefaultQuality("h264_videotoolbox") != 75 {
		t.Error("unexpected default quality")
	}
}

func TestImagePool(t *testing.T) {
	p := NewImagePool()
	r := image.Rect(0, 0, 16, 9)
	img := p.Get(r)
	if img.Rect != r {
		t.Fatalf("rect %v", img.Rect)
	}
	p.Put(img)
	p.Put(nil)
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3))) // unknown size is dropped

	again := p.Get(r)
	if again.Rect != r {
		t.Errorf("rect %v", again.Rect)
	}
}
