// Package game runs the desktop walkthrough viewer: window, input and the
// line renderer around one session.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/config"
	"github.com/Faultbox/officewalk/internal/engine/camera"
	"github.com/Faultbox/officewalk/internal/engine/debug"
	"github.com/Faultbox/officewalk/internal/engine/input"
	"github.com/Faultbox/officewalk/internal/engine/renderer"
	"github.com/Faultbox/officewalk/internal/engine/window"
	"github.com/Faultbox/officewalk/internal/feed"
	"github.com/Faultbox/officewalk/internal/game/overlay"
	"github.com/Faultbox/officewalk/internal/game/session"
	"github.com/Faultbox/officewalk/internal/logger"
)

// maxFrameTime caps dt after stalls such as window drags.
const maxFrameTime = 0.1

// Game is the viewer instance.
type Game struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	session  *session.Session
	scene    *overlay.Scene
	eye      *camera.FirstPerson
	overview *camera.Overview
	aerial   bool // Overview camera active

	shots *debug.ScreenshotCapture

	hub        *feed.Hub
	stopFeed   context.CancelFunc
	feedErrors chan error
}

// New loads the configured blueprint, opens the window and, if enabled,
// starts the location feed.
func New(cfg *config.Config) (*Game, error) {
	m, name := cfg.BlueprintSource()
	bp, err := session.LoadBlueprint(m, name)
	if err != nil {
		return nil, fmt.Errorf("loading blueprint: %w", err)
	}

	sess, err := session.New(cfg.Session(), bp)
	if err != nil {
		return nil, err
	}

	logger.Info("initializing viewer",
		zap.String("blueprint", bp.Name),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	g := &Game{
		cfg:      cfg,
		session:  sess,
		scene:    overlay.NewScene(overlay.DefaultPalette()),
		eye:      camera.NewFirstPerson(),
		overview: camera.NewOverview(),
		shots:    debug.NewScreenshotCapture("screenshots", "officewalk"),
	}

	// Window first: the GL context must exist before the renderer
	g.window, err = window.New(window.Config{
		Title:      "officewalk - " + bp.Name,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := g.window.Size()
	g.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		ClearColor: [3]float32{0.05, 0.05, 0.07},
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New(input.DefaultBindings())
	input.SetRelativeMouse(true)

	g.scene.SetCeilings(cfg.Graphics.Wireframe)
	g.scene.Rebuild(sess.Layout())
	g.overview.FitToBounds(sess.Layout().Bounds())

	if cfg.Feed.Enabled {
		g.startFeed()
	}

	logger.Info("viewer initialized", zap.Int("lines", g.scene.StaticLen()/2))
	return g, nil
}

func (g *Game) startFeed() {
	g.hub = feed.NewHub(g.cfg.Feed)
	g.session.AddLocationListener(g.hub)
	g.session.AddDoorListener(g.hub)
	g.session.AddFrameListener(g.hub)

	ctx, cancel := context.WithCancel(context.Background())
	g.stopFeed = cancel
	g.feedErrors = make(chan error, 1)
	go func() {
		g.feedErrors <- feed.Serve(ctx, g.cfg.Feed, g.hub)
	}()
}

// Run starts the main loop and returns when the window closes or Escape
// is pressed.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting walkthrough loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		if dt > maxFrameTime {
			dt = maxFrameTime
		}

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		select {
		case err := <-g.feedErrors:
			// Serve only returns early when the listener failed
			if err != nil {
				logger.Warn("location feed stopped", zap.Error(err))
			}
		default:
		}

		g.update(float32(dt))
		g.render()
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if g.cfg.Graphics.ShowFPS {
				f := g.session.Frame()
				g.window.SetTitle(fmt.Sprintf("officewalk - %s - %d fps", f.SegmentID, frameCount))
			}
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := g.window.Size()
			g.renderer.Resize(w, h)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_TAB:
				g.aerial = !g.aerial
				input.SetRelativeMouse(!g.aerial)
			case sdl.SCANCODE_F3:
				g.cfg.Graphics.Wireframe = !g.cfg.Graphics.Wireframe
				g.scene.SetCeilings(g.cfg.Graphics.Wireframe)
				g.scene.Rebuild(g.session.Layout())
			case sdl.SCANCODE_F12:
				g.screenshot()
			}
		}
	}
}

// update advances the session. In overview mode the player is frozen and
// mouse input orbits the overview camera instead.
func (g *Game) update(dt float32) {
	in := g.input.Movement()
	perm := g.session.Permission()
	if g.aerial {
		perm.Deny("overview")
		g.overview.HandleDrag(in.MouseDX, in.MouseDY)
		g.overview.HandleZoom(in.Wheel)
		in.MouseDX, in.MouseDY, in.Wheel = 0, 0, 0
	} else {
		perm.Allow("overview")
	}

	f := g.session.Update(dt, in)
	g.eye.Apply(f)
}

func (g *Game) render() {
	g.renderer.Begin()

	aspect := g.renderer.Aspect()
	view := g.eye.ViewMatrix()
	if g.aerial {
		view = g.overview.ViewMatrix()
	}
	viewProj := g.eye.ProjectionMatrix(aspect).Mul(view)

	lines := g.scene.Lines(g.session.Layout(), g.session.Doors(), g.session.Frame(), g.aerial)
	g.renderer.DrawLines(viewProj, lines)

	g.renderer.End()
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	logger.Info("closing viewer")

	if g.stopFeed != nil {
		g.stopFeed()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
