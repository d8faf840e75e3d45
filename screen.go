package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"famiko/emu"
	"famiko/hw"
)

const (
	screenW = 256
	screenH = 240

	audioRate = 48000
)

// screen is the SDL2 front-end: a window showing the PPU framebuffer, queued
// audio, and keyboard state polled into the first controller port.
type screen struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audio    sdl.AudioDeviceID

	keymap map[sdl.Scancode]uint8
}

func newScreen(romPath string, cfg emu.Config) (*screen, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %w", err)
	}

	scale := max(cfg.Video.Scale, 1)
	title := fmt.Sprintf("famiko - %s", filepath.Base(romPath))
	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(screenW*scale), int32(screenH*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	flags := sdl.RENDERER_ACCELERATED | sdl.RENDERER_PRESENTVSYNC
	if cfg.Video.DisableVSync {
		flags &^= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	// The PPU framebuffer is RGBA bytes in memory order.
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING, screenW, screenH)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}

	want := sdl.AudioSpec{
		Freq:     audioRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  1024,
	}
	audio, err := sdl.OpenAudioDevice("", false, &want, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	sdl.PauseAudioDevice(audio, false)

	return &screen{
		window:   window,
		renderer: renderer,
		texture:  texture,
		audio:    audio,
		keymap:   keymapFromConfig(cfg.Input),
	}, nil
}

func keymapFromConfig(cfg emu.InputConfig) map[sdl.Scancode]uint8 {
	m := make(map[sdl.Scancode]uint8)
	for name, button := range map[string]uint8{
		cfg.A: hw.PadA, cfg.B: hw.PadB,
		cfg.Select: hw.PadSelect, cfg.Start: hw.PadStart,
		cfg.Up: hw.PadUp, cfg.Down: hw.PadDown,
		cfg.Left: hw.PadLeft, cfg.Right: hw.PadRight,
	} {
		if sc := sdl.GetScancodeFromName(name); sc != sdl.SCANCODE_UNKNOWN {
			m[sc] = button
		}
	}
	return m
}

func (s *screen) close() {
	sdl.CloseAudioDevice(s.audio)
	s.texture.Destroy()
	s.renderer.Destroy()
	s.window.Destroy()
	sdl.Quit()
}

// loop drives the console at ~60 Hz until the window is closed.
func (s *screen) loop(nes *emu.NES) error {
	const frameDuration = time.Second / 60

	for {
		start := time.Now()

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					return nil
				}
			}
		}

		nes.SetButtons(0, s.padState())

		frame, err := nes.RunFrame()
		if err != nil {
			return err
		}

		if err := s.texture.Update(nil, unsafe.Pointer(&frame.Pix[0]), frame.Stride); err != nil {
			return err
		}
		s.renderer.Clear()
		s.renderer.Copy(s.texture, nil, nil)
		s.renderer.Present()

		samples := nes.AudioSamples(audioRate)
		if len(samples) > 0 {
			buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
			if err := sdl.QueueAudio(s.audio, buf); err != nil {
				return err
			}
		}

		if elapsed := time.Since(start); elapsed < frameDuration {
			sdl.Delay(uint32((frameDuration - elapsed).Milliseconds()))
		}
	}
}

// padState polls the keyboard into a controller button mask.
func (s *screen) padState() uint8 {
	var mask uint8
	kb := sdl.GetKeyboardState()
	for sc, button := range s.keymap {
		if kb[sc] != 0 {
			mask |= button
		}
	}
	return mask
}
