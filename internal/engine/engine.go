package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scenereel/internal/config"
	"github.com/ivlev/scenereel/internal/controller"
	"github.com/ivlev/scenereel/internal/director"
	"github.com/ivlev/scenereel/internal/effects"
	"github.com/ivlev/scenereel/internal/renderer"
	"github.com/ivlev/scenereel/internal/sequencer"
	"github.com/ivlev/scenereel/internal/source"
	"github.com/ivlev/scenereel/internal/system"
	"github.com/ivlev/scenereel/internal/video"
)

// ScriptsDir is searched for the latest script when none is given
const ScriptsDir = "scripts"

// ctaShare is the QR code size relative to the frame height
const ctaShare = 0.22

type VideoProject struct {
	Config     *config.Config
	Source     source.Source
	Storyboard *director.Storyboard
	Encoder    video.VideoEncoder
	Backdrop   effects.Backdrop // nil disables the backdrop
}

func NewVideoProject(cfg *config.Config, src source.Source, sb *director.Storyboard, ve video.VideoEncoder, bd effects.Backdrop) *VideoProject {
	return &VideoProject{
		Config:     cfg,
		Source:     src,
		Storyboard: sb,
		Encoder:    ve,
		Backdrop:   bd,
	}
}

func (p *VideoProject) Run(ctx context.Context) error {
	startTime := time.Now()

	if p.Source.SceneCount() == 0 {
		return fmt.Errorf("источник не содержит страниц/кадров")
	}
	if p.Storyboard == nil {
		p.Storyboard = director.DefaultStoryboard(p.Source.SceneCount())
	}
	if err := p.Storyboard.Validate(p.Source.SceneCount()); err != nil {
		return fmt.Errorf("ошибка раскадровки: %w", err)
	}
	sceneCount := len(p.Storyboard.Scenes)

	// Режим генерации тура
	if p.Config.TourOutput != "" {
		return p.handleGenerateTour(sceneCount)
	}

	script, err := p.loadScript(sceneCount)
	if err != nil {
		return err
	}

	sim, err := Simulate(script, p.Config.Params(sceneCount, p.Config.TotalDuration))
	if err != nil {
		return fmt.Errorf("ошибка симуляции: %w", err)
	}
	simulateEnd := time.Now()
	if sim.Ignored > 0 {
		log.Printf("[!] Пропущено событий без навигации: %d", sim.Ignored)
	}

	if p.Config.TimelinePath != "" {
		if err := director.WriteTimeline(sim.Timeline(), p.Config.TimelinePath); err != nil {
			return fmt.Errorf("ошибка записи таймлайна: %w", err)
		}
		fmt.Printf("[+++] Успех! Таймлайн сохранен: %s\n", p.Config.TimelinePath)
		return nil
	}

	fmt.Println("--- [PROJECT: SCENE RECORDER] ---")
	fmt.Printf("[*] Источник: %s | Сцен: %d\n", p.Config.InputPath, sceneCount)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Кадров: %d\n", p.Config.Width, p.Config.Height, p.Config.FPS, len(sim.Snapshots))
	fmt.Println("-----------------------------")

	frameBytes := p.Config.Width * p.Config.Height * 4
	budget := system.RecommendBudget(p.Config.Workers, frameBytes)

	renderStart := time.Now()
	frame, err := p.buildRenderer(ctx, budget.Workers)
	if err != nil {
		return err
	}
	frame.Start = Epoch
	prepareTime := time.Since(renderStart)

	sink, err := p.Encoder.Open(ctx, sim.Params, p.Config.OutputVideo)
	if err != nil {
		return fmt.Errorf("ошибка запуска энкодера: %w", err)
	}

	if err := renderFrames(ctx, frame, sim.Snapshots, budget, sink); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("ошибка сборки финального видео: %w", err)
	}

	totalTime := time.Since(startTime)
	renderTime := time.Since(renderStart)
	fps := float64(len(sim.Snapshots)) / totalTime.Seconds()

	if p.Config.ShowStats {
		report := fmt.Sprintf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Total Time: %.2fs\n"+
				"Simulation: %.2fs\n"+
				"Scene Prerender: %.2fs\n"+
				"Render + Encode: %.2fs\n"+
				"Workers: %d | In flight: %d\n"+
				"Effective FPS: %.2f\n"+
				"----------------------------\n",
			p.Config.BuildVersion, totalTime.Seconds(), simulateEnd.Sub(startTime).Seconds(),
			prepareTime.Seconds(), renderTime.Seconds(), budget.Workers, budget.InFlight, fps,
		)
		fmt.Print(report)

		// Логирование в файл
		logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Scenes: %d | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
			time.Now().Format("2006-01-02 15:04:05"),
			p.Config.BuildVersion,
			filepath.Base(p.Config.InputPath),
			sceneCount,
			len(sim.Snapshots),
			totalTime.Seconds(),
			renderTime.Seconds(),
			fps,
		)

		f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			f.WriteString(logEntry)
			f.Close()
		} else {
			fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		}
	}

	return nil
}

// loadScript picks the explicit script, then the latest one in ScriptsDir,
// then a generated tour
func (p *VideoProject) loadScript(sceneCount int) (*director.Script, error) {
	path := p.Config.ScriptPath
	if path == "" {
		if latest, err := director.FindLatestScript(ScriptsDir); err == nil {
			path = latest
		}
	}

	if path != "" {
		script, err := director.ReadScript(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения сценария: %w", err)
		}
		fmt.Printf("[*] Используется сценарий: %s\n", path)
		return script, nil
	}

	fmt.Println("[*] Сценарий не найден, генерируется тур по сценам")
	return director.NewDirector(sceneCount).Tour(p.Config.TotalDuration)
}

func (p *VideoProject) handleGenerateTour(sceneCount int) error {
	fmt.Println("[*] Режим генерации тура...")

	script, err := director.NewDirector(sceneCount).Tour(p.Config.TotalDuration)
	if err != nil {
		return err
	}
	if err := director.WriteScript(script, p.Config.TourOutput); err != nil {
		return err
	}

	fmt.Printf("[+++] Успех! Сценарий сохранен: %s (%d событий, %.1fs)\n", p.Config.TourOutput, len(script.Events), script.Duration)
	return nil
}

// layout resolves path geometry: storyboard values win over flags
func (p *VideoProject) layout() (sequencer.Layout, float64) {
	spacing, perspective := p.Config.Spacing, p.Config.Perspective
	if p.Storyboard.Layout.Spacing > 0 {
		spacing = p.Storyboard.Layout.Spacing
	}
	if p.Storyboard.Layout.Perspective > 0 {
		perspective = p.Storyboard.Layout.Perspective
	}
	return sequencer.Layout{Spacing: spacing}, perspective
}

func (p *VideoProject) buildRenderer(ctx context.Context, workers int) (*renderer.Frame, error) {
	layout, perspective := p.layout()
	comp := renderer.NewCompositor(p.Config.Width, p.Config.Height, layout, perspective)

	panels, err := p.prerenderPanels(ctx, comp, workers)
	if err != nil {
		return nil, err
	}
	comp.SetPanels(panels)

	frame := &renderer.Frame{Compositor: comp}
	if p.Backdrop != nil {
		frame.Backdrop = effects.Guard(p.Backdrop)
	}

	cta, err := effects.NewCallToAction(p.Storyboard.FinalLink(), int(float64(p.Config.Height)*ctaShare))
	if err != nil {
		log.Printf("[!] QR-код отключен: %v", err)
		cta = nil
	}
	frame.Reflector = &renderer.Reflector{Titles: p.Storyboard.Titles(), CTA: cta}
	return frame, nil
}

// prerenderPanels renders and fits every scene once, in parallel
func (p *VideoProject) prerenderPanels(ctx context.Context, comp *renderer.Compositor, workers int) ([]*image.RGBA, error) {
	panels := make([]*image.RGBA, len(p.Storyboard.Scenes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, scene := range p.Storyboard.Scenes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := p.Source.Render(scene.Page, p.Config.DPI)
			if err != nil {
				return fmt.Errorf("ошибка рендеринга сцены %d (страница %d): %w", i+1, scene.Page, err)
			}
			panels[i] = comp.FitPanel(img)
			fmt.Printf("[>] Сцена готова: %d/%d\n", i+1, len(panels))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return panels, nil
}

// renderFrames renders InFlight frames at a time in parallel and writes each
// chunk to the sink in order. A backdrop that fails stays on for the rest of
// its chunk and is off from the next chunk on.
func renderFrames(ctx context.Context, frame *renderer.Frame, snaps []controller.Snapshot, budget system.Budget, sink video.FrameSink) error {
	rect := image.Rect(0, 0, frame.Compositor.Width, frame.Compositor.Height)
	pool := system.NewImagePool()
	chunk := make([]*image.RGBA, budget.InFlight)

	for start := 0; start < len(snaps); start += budget.InFlight {
		end := min(start+budget.InFlight, len(snaps))

		// One backdrop decision per chunk: a failure inside the chunk only
		// drops the backdrop from the frame that failed
		backdrop := !frame.Backdrop.Disabled()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(budget.Workers)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				img := pool.Get(rect)
				frame.RenderWithBackdrop(img, snaps[i], backdrop)
				chunk[i-start] = img
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			for _, img := range chunk[:end-start] {
				pool.Put(img)
			}
			return err
		}

		for i := start; i < end; i++ {
			img := chunk[i-start]
			if err := sink.WriteFrame(img); err != nil {
				return fmt.Errorf("ошибка кодирования кадра %d: %w", i, err)
			}
			pool.Put(img)
			chunk[i-start] = nil
		}
		fmt.Printf("[>] Кадров: %d/%d\n", end, len(snaps))
	}
	return nil
}
