package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ivlev/scenereel/internal/config"
	"github.com/ivlev/scenereel/internal/controller"
	"github.com/ivlev/scenereel/internal/sequencer"
)

// Command is one line typed in live mode
type Command struct {
	Name   string // next, prev, go, wheel, drag, quit
	Scene  int
	DeltaY float64
	Y0, Y1 float64
}

// ParseCommand reads "next", "prev", "go N", "wheel DY", "drag Y0 Y1" or "quit"
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	cmd := Command{Name: fields[0]}
	args := fields[1:]
	want := 0
	switch cmd.Name {
	case "next", "prev", "quit":
	case "go", "wheel":
		want = 1
	case "drag":
		want = 2
	default:
		return Command{}, fmt.Errorf("unknown command %q", cmd.Name)
	}
	if len(args) != want {
		return Command{}, fmt.Errorf("%s: expected %d argument(s), got %d", cmd.Name, want, len(args))
	}

	var err error
	switch cmd.Name {
	case "go":
		cmd.Scene, err = strconv.Atoi(args[0])
	case "wheel":
		cmd.DeltaY, err = strconv.ParseFloat(args[0], 64)
	case "drag":
		if cmd.Y0, err = strconv.ParseFloat(args[0], 64); err == nil {
			cmd.Y1, err = strconv.ParseFloat(args[1], 64)
		}
	}
	if err != nil {
		return Command{}, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return cmd, nil
}

// Apply feeds the command into ctrl. A drag is a whole gesture: start, one
// move from Y0 to Y1, end.
func (c Command) Apply(ctrl *controller.Controller) {
	switch c.Name {
	case "next":
		ctrl.Step(sequencer.Forward)
	case "prev":
		ctrl.Step(sequencer.Backward)
	case "go":
		ctrl.JumpTo(c.Scene)
	case "wheel":
		ctrl.Scroll(sequencer.WheelDelta(c.DeltaY))
	case "drag":
		ctrl.BeginDrag()
		ctrl.Drag(sequencer.TouchDelta(c.Y0, c.Y1))
		ctrl.EndDrag()
	}
}

// syncWriter lets the tick loop and the input loop share one output
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

// RunLive ticks ctrl fps times a second on the real clock and applies
// commands read from in until "quit", end of input or ctx is done
func RunLive(ctx context.Context, ctrl *controller.Controller, in io.Reader, out io.Writer, fps int) error {
	if err := config.ValidateFPS(fps); err != nil {
		return err
	}
	w := &syncWriter{w: out}

	unsubscribe := ctrl.Subscribe(controller.ObserverFunc(func(s controller.Snapshot) {
		if s.Entered >= 0 {
			w.Printf("[*] Сцена %d/%d (прогресс %.3f)\n", s.Entered+1, s.SceneCount, s.Progress)
		}
	}))
	defer unsubscribe()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- ctrl.Run(runCtx, time.Second/time.Duration(fps)) }()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-runCtx.Done():
				return
			}
		}
	}()

	w.Printf("[*] Команды: next, prev, go N, wheel DY, drag Y0 Y1, quit\n")

	finish := func() error {
		cancel()
		err := <-runErr
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return nil
		}
		return err
	}

	for {
		select {
		case err := <-runErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return finish()
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			cmd, err := ParseCommand(line)
			if err != nil {
				w.Printf("[!] %v\n", err)
				continue
			}
			if cmd.Name == "quit" {
				return finish()
			}
			cmd.Apply(ctrl)
		}
	}
}
