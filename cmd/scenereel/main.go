package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/scenereel/internal/config"
	"github.com/ivlev/scenereel/internal/controller"
	"github.com/ivlev/scenereel/internal/director"
	"github.com/ivlev/scenereel/internal/effects"
	"github.com/ivlev/scenereel/internal/engine"
	"github.com/ivlev/scenereel/internal/source"
	"github.com/ivlev/scenereel/internal/system"
	"github.com/ivlev/scenereel/internal/video"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{"input/audio", "input/pdf", engine.ScriptsDir, "output"}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			log.Printf("[!] Не удалось создать директорию %s: %v", d, err)
		}
	}

	inputPtr := flag.String("input", "", "Путь к PDF или папке с изображениями (по умолчанию: самый свежий файл в input/pdf/, иначе демо-сцены)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	storyboardPtr := flag.String("storyboard", "", "YAML раскадровка: названия сцен, страницы, ссылка QR, геометрия пути")
	scriptPtr := flag.String("script", "", "YAML сценарий ввода (по умолчанию: самый свежий в scripts/, иначе тур)")
	timelinePtr := flag.String("timeline", "", "Только записать таймлайн в YAML и выйти")
	tourPtr := flag.String("tour", "", "Только сгенерировать тур-сценарий в YAML и выйти")
	livePtr := flag.Bool("live", false, "Интерактивный режим: команды из stdin")
	scenesPtr := flag.Int("scenes", 5, "Количество демо-сцен, если нет входного файла")
	durationPtr := flag.Float64("duration", 0, "Длительность тура (0 - по умолчанию или по аудио)")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	fpsPtr := flag.Int("fps", 60, "FPS (один тик секвенсора на кадр)")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - по числу физических ядер)")
	dpiPtr := flag.Int("dpi", 150, "DPI")
	spacingPtr := flag.Float64("spacing", 800, "Расстояние между сценами на пути")
	perspectivePtr := flag.Float64("perspective", 1200, "Перспектива (расстояние до зрителя)")
	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в input/audio/)")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности и записать benchmark.log")
	noBackdropPtr := flag.Bool("no-backdrop", false, "Отключить анимированный фон")

	flag.Parse()

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	}

	inputPath := *inputPtr
	if inputPath == "" {
		if latest, err := system.FindLatestDocument("input/pdf"); err == nil {
			inputPath = latest
			fmt.Printf("[*] Выбран файл: %s\n", inputPath)
		}
	}

	var sb *director.Storyboard
	if *storyboardPtr != "" {
		var err error
		sb, err = director.ReadStoryboard(*storyboardPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения раскадровки: %v", err)
		}
	}

	var src source.Source
	if inputPath != "" {
		var err error
		src, err = source.Open(inputPath)
		if err != nil {
			log.Fatalf("[-] Ошибка инициализации источника: %v", err)
		}
	} else {
		titles := director.DefaultStoryboard(*scenesPtr).Titles()
		if sb != nil {
			titles = sb.Titles()
		}
		fmt.Printf("[*] Входной файл не найден, используются демо-сцены: %d\n", len(titles))
		src = source.NewSolidSource(titles, 1600, 900)
		inputPath = "demo"
	}
	defer src.Close()

	if src.SceneCount() == 0 {
		log.Fatalf("[-] Ошибка: в источнике нет страниц или изображений")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *livePtr {
		if err := config.ValidateFPS(*fpsPtr); err != nil {
			log.Fatalf("[-] Ошибка конфигурации: %v", err)
		}
		sceneCount := src.SceneCount()
		if sb != nil {
			sceneCount = len(sb.Scenes)
		}
		ctrl := controller.New(sceneCount, nil)
		fmt.Printf("[*] Интерактивный режим: %d сцен @ %d FPS\n", sceneCount, *fpsPtr)
		if err := engine.RunLive(ctx, ctrl, os.Stdin, os.Stdout, *fpsPtr); err != nil && ctx.Err() == nil {
			log.Fatalf("[-] Ошибка интерактивного режима: %v", err)
		}
		return
	}

	totalDuration := *durationPtr

	// Обработка аудио
	audioPath := *audioPtr
	if audioPath == "" {
		if latest, err := system.FindLatestAudio("input/audio"); err == nil {
			audioPath = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", audioPath)
		}
	}
	if audioPath != "" && totalDuration <= 0 {
		audioDur, err := system.GetAudioDuration(audioPath)
		if err == nil {
			totalDuration = audioDur
			fmt.Printf("[*] Длительность тура установлена по аудио: %.2fs\n", totalDuration)
		} else {
			log.Printf("[!] Не удалось получить длительность аудио: %v", err)
		}
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		baseName := filepath.Base(inputPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
	}

	encoderName := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}
	quality := *qualityPtr
	if quality == 0 {
		quality = system.DefaultQuality(encoderName)
	}

	cfg := &config.Config{
		InputPath:      inputPath,
		OutputVideo:    finalOutput,
		StoryboardPath: *storyboardPtr,
		ScriptPath:     *scriptPtr,
		TimelinePath:   *timelinePtr,
		TourOutput:     *tourPtr,
		TotalDuration:  totalDuration,
		Width:          width,
		Height:         height,
		FPS:            *fpsPtr,
		Workers:        *workersPtr,
		DPI:            *dpiPtr,
		Spacing:        *spacingPtr,
		Perspective:    *perspectivePtr,
		AudioPath:      audioPath,
		Preset:         *presetPtr,
		VideoEncoder:   encoderName,
		Quality:        quality,
		ShowStats:      *statsPtr,
		NoBackdrop:     *noBackdropPtr,
		BuildVersion:   buildVersion,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	// Инициализируем зависимости
	ve := &video.FFmpegEncoder{Codec: cfg.VideoEncoder, Quality: cfg.Quality, AudioPath: cfg.AudioPath}
	var bd effects.Backdrop
	if !cfg.NoBackdrop {
		bd = effects.NewGradientBackdrop()
	}

	project := engine.NewVideoProject(cfg, src, sb, ve, bd)
	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	if cfg.TimelinePath == "" && cfg.TourOutput == "" {
		fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
	}
}
