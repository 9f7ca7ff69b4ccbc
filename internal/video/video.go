package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/scenereel/internal/config"
)

// FrameSink accepts frames in presentation order
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

type VideoEncoder interface {
	Open(ctx context.Context, params config.FrameParams, outputPath string) (FrameSink, error)
}

// FFmpegEncoder streams raw RGBA frames into an ffmpeg process over stdin
type FFmpegEncoder struct {
	Codec     string // libx264, h264_nvenc, h264_videotoolbox
	Quality   int
	AudioPath string // Optional soundtrack, muxed with -shortest
}

func (e *FFmpegEncoder) Open(ctx context.Context, params config.FrameParams, outputPath string) (FrameSink, error) {
	args := e.buildFFmpegArgs(params, outputPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	return &ffmpegSink{
		cmd:    cmd,
		stdin:  stdin,
		log:    &out,
		width:  params.Width,
		height: params.Height,
	}, nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(params config.FrameParams, outputPath string) []string {
	codec := e.Codec
	if codec == "" {
		codec = "libx264"
	}

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}
	if e.AudioPath != "" {
		args = append(args, "-i", e.AudioPath, "-map", "0:v", "-map", "1:a", "-c:a", "aac", "-shortest")
	}
	args = append(args, "-pix_fmt", "yuv420p", "-c:v", codec)

	// Качество в зависимости от энкодера
	switch codec {
	case "h264_videotoolbox":
		bitrate := e.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", e.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", e.Quality), "-preset", "medium")
	}

	args = append(args, outputPath)
	return args
}

type ffmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	log    *bytes.Buffer
	width  int
	height int
	frames int
}

func (s *ffmpegSink) WriteFrame(img *image.RGBA) error {
	if img.Bounds().Dx() != s.width || img.Bounds().Dy() != s.height {
		return fmt.Errorf("frame %d: size %v, want %dx%d", s.frames, img.Bounds().Size(), s.width, s.height)
	}
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error (frame %d): %w", s.frames, err)
	}
	s.frames++
	return nil
}

func (s *ffmpegSink) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, s.log.String())
	}
	return nil
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	rgba := img
	if rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
