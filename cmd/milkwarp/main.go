package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/aurorafx/milkwarp/audio"
	"github.com/aurorafx/milkwarp/egl"
	"github.com/aurorafx/milkwarp/expr"
	"github.com/aurorafx/milkwarp/glresolve"
	"github.com/aurorafx/milkwarp/preset"
	"github.com/aurorafx/milkwarp/presetfile"
	"github.com/aurorafx/milkwarp/switcher"
	"github.com/aurorafx/milkwarp/texture"
)

func main() {
	log.SetOutput(os.Stderr)
	// The GL context created below is bound to this thread for its whole
	// lifetime.
	runtime.LockOSThread()

	presetPath := flag.String("preset", "", "The preset file to load")
	width := flag.Uint("width", 1280, "Render width")
	height := flag.Uint("height", 720, "Render height")
	framerate := flag.Float64("f", 60, "Frames per second to render at")
	audioFile := flag.String("audio", "", "Raw float32 PCM file to drive the visualization; silence if unset")
	watch := flag.Bool("w", false, "Watch the preset file's directory for changes and reload on save")
	verbose := flag.Bool("v", false, "Show verbose output about the switch state machine")
	var textureDirs arrayFlags
	flag.Var(&textureDirs, "texdir", "A directory to search for preset textures; may be repeated")
	flag.Parse()

	if *presetPath == "" {
		log.Fatalf("Please specify a preset file with -preset")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
		signal.Stop(sig)
		cancel()
	}()

	display, err := egl.GetDisplay(egl.DefaultDisplay)
	if err != nil {
		log.Fatalf("Could not open a display: %v", err)
	}
	defer display.Destroy()
	surface := display.CreateSurface(*width, *height)
	display.BindAPI(egl.OpenGLAPI)
	glContext := display.CreateContext(surface)
	glContext.MakeCurrent()

	if _, err := glresolve.Load(glresolve.DefaultVersionRequirement); err != nil {
		log.Fatalf("Could not load OpenGL: %v", err)
	}
	gl.Viewport(0, 0, int32(*width), int32(*height))

	textures := texture.NewManager(append([]string(textureDirs), filepath.Dir(*presetPath)))
	compiler := expr.NewYaegiCompiler()
	parser := presetfile.TOMLParser{}
	worker := switcher.NewCPUWorker(compiler, textures)
	orchestrator := switcher.NewOrchestrator(parser, worker)
	defer orchestrator.Close()

	source, err := newAudioSource(*audioFile)
	if err != nil {
		log.Fatalf("Could not open audio source: %v", err)
	}
	defer source.Close()

	renderCtx := preset.RenderContext{Width: int(*width), Height: int(*height), TextureManager: textures}

	orchestrator.RequestSwitch(*presetPath, false)

	if *watch {
		go watchPresetDir(ctx, *presetPath, orchestrator)
	}

	interval := time.Duration(float64(time.Second) / *framerate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := orchestrator.Drive(renderCtx); err != nil && *verbose {
			log.Printf("switch error: %v", err)
		}
		if c := orchestrator.Current(); *verbose && c != nil {
			log.Printf("switch state: %s", c.State())
		}

		active := orchestrator.Active()
		if active == nil {
			continue
		}
		frame, err := source.NextFrame()
		if err != nil {
			log.Printf("audio source error: %v", err)
			continue
		}
		if err := active.RenderFrame(frame, renderCtx); err != nil {
			log.Printf("render error: %v", err)
		}
	}
}

// newAudioSource opens path as a raw float32 PCM FFT source, or a silent
// source if path is empty.
func newAudioSource(path string) (audio.Source, error) {
	if path == "" {
		return silentSource{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return audio.NewFFTSource(f, 1024), nil
}

type silentSource struct{}

func (silentSource) NextFrame() (audio.Frame, error) { return audio.Frame{}, nil }
func (silentSource) Close() error                    { return nil }

// watchPresetDir reloads the preset whenever the watched file changes, the
// same fsnotify-driven reload loop as the teacher's shader-source watch.
func watchPresetDir(ctx context.Context, path string, o *switcher.Orchestrator) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("could not start watching %s: %v", path, err)
		return
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Printf("could not watch %s: %v", filepath.Dir(path), err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-watcher.Events:
			if event.Name == path && (event.Op&(fsnotify.Write|fsnotify.Create)) != 0 {
				log.Printf("reloading %s", path)
				o.RequestSwitch(path, true)
			}
		case err := <-watcher.Errors:
			log.Printf("watch error: %v", err)
		}
	}
}

type arrayFlags []string

func (i *arrayFlags) String() string { return "more of the same" }

func (i *arrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}
