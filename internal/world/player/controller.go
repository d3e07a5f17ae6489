package player

import (
	gomath "math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/collision"
	"github.com/Faultbox/officewalk/pkg/math"
)

// focus is an in-progress look override toward a point of interest.
type focus struct {
	active             bool
	elapsed            float32
	fromYaw, fromPitch float32
	toYaw, toPitch     float32
}

// Controller is the first-person controller. It is driven by one Update
// call per frame from a single goroutine.
type Controller struct {
	cfg      Config
	resolver *collision.Resolver

	spawn    math.Vec3
	spawnYaw float32
	state    State

	colliders    CollidableProvider
	interactable InteractableProvider
	locator      SegmentLocator
	listeners    []LocationListener

	clock        float64
	distance     float32
	fov          float32
	zoomTarget   float32 // Zero when not zoomed
	bobIntensity float32
	breathPhase  float32
	bobOffset    math.Vec3

	disorient     float32
	disorientPeak float32

	effects      CameraEffects
	focus        focus
	interactHeld bool

	rng              *rand.Rand
	warnedNoCollider bool

	frame Frame
}

// NewController creates a controller standing at spawn, looking along spawnYaw.
// A nil resolver moves without collision.
func NewController(cfg Config, resolver *collision.Resolver, spawn math.Vec3, spawnYaw float32) *Controller {
	cfg = cfg.withDefaults()
	spawn.Y = cfg.EyeHeight
	c := &Controller{
		cfg:      cfg,
		resolver: resolver,
		spawn:    spawn,
		spawnYaw: spawnYaw,
		fov:      cfg.BaseFOV,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	c.state = State{Position: spawn, Yaw: spawnYaw}
	c.frame = c.buildFrame()
	return c
}

// SetCollidableProvider sets the source of collision surfaces.
func (c *Controller) SetCollidableProvider(p CollidableProvider) {
	c.colliders = p
	c.warnedNoCollider = false
}

// SetInteractableProvider sets the source of interactables.
func (c *Controller) SetInteractableProvider(p InteractableProvider) {
	c.interactable = p
}

// SetSegmentLocator sets the position to location mapping.
func (c *Controller) SetSegmentLocator(l SegmentLocator) {
	c.locator = l
}

// AddLocationListener attaches a listener for location changes.
func (c *Controller) AddLocationListener(l LocationListener) {
	if l != nil {
		c.listeners = append(c.listeners, l)
	}
}

// SetRand replaces the source used for disorientation jitter.
func (c *Controller) SetRand(r *rand.Rand) {
	if r != nil {
		c.rng = r
	}
}

// State returns a copy of the player state.
func (c *Controller) State() State {
	return c.state
}

// Frame returns the last published frame.
func (c *Controller) Frame() Frame {
	return c.frame
}

// Effects returns the pending camera effects.
func (c *Controller) Effects() *CameraEffects {
	return &c.effects
}

// Distance returns the total distance walked.
func (c *Controller) Distance() float32 {
	return c.distance
}

// Teleport moves the player without collision and keeps the current segment
// until the next update locates it.
func (c *Controller) Teleport(pos math.Vec3, yaw float32) {
	pos.Y = c.cfg.EyeHeight
	c.state.Position = pos
	c.state.Yaw = yaw
	c.state.Velocity = math.Vec3{}
	c.frame = c.buildFrame()
}

// Update advances the controller by dt seconds. When perm denies movement
// only look and FOV smoothing run. The returned frame is published only after
// collision resolution.
func (c *Controller) Update(dt float32, in InputState, perm *MovementPermission) Frame {
	if dt <= 0 || !math.IsFinite(dt) {
		return c.frame
	}
	c.clock += float64(dt)

	if !perm.CanMove() {
		c.state.Velocity = math.Vec3{}
		c.state.IsRunning = false
		c.look(dt, in)
		c.updateBob(dt, 0)
		c.updateFOV(dt, false, in.Wheel)
		c.interactHeld = in.Interact
		c.sanitize()
		c.frame = c.buildFrame()
		return c.frame
	}

	delta, moving := c.intendedDelta(dt, in)
	c.state.IsRunning = moving && in.Run

	resolved := c.collide(delta)
	c.state.Position = c.state.Position.Add(resolved)
	c.state.Position.Y = c.cfg.EyeHeight
	c.state.Velocity = resolved.Scale(1 / dt)

	moved := resolved.XZ().Length()
	c.distance += moved
	c.updateBob(dt, moved)

	c.look(dt, in)
	c.updateFOV(dt, c.state.IsRunning, in.Wheel)
	c.updateLocation()
	c.handleInteract(in)

	c.sanitize()
	c.frame = c.buildFrame()
	return c.frame
}

// intendedDelta turns movement keys into a world delta for this frame.
func (c *Controller) intendedDelta(dt float32, in InputState) (math.Vec3, bool) {
	var fwd, strafe float32
	if in.Forward {
		fwd++
	}
	if in.Backward {
		fwd--
	}
	if in.Right {
		strafe++
	}
	if in.Left {
		strafe--
	}
	if fwd == 0 && strafe == 0 {
		return math.Vec3{}, false
	}
	dir := math.Forward(c.state.Yaw).Scale(fwd).Add(math.Right(c.state.Yaw).Scale(strafe)).Normalize()
	speed := c.cfg.WalkSpeed
	if in.Run {
		speed = c.cfg.RunSpeed
	}
	return dir.Scale(speed * dt), true
}

// collide asks the resolver for the allowed part of delta. Without a
// collidable provider movement proceeds uncollided.
func (c *Controller) collide(delta math.Vec3) math.Vec3 {
	if delta == (math.Vec3{}) || c.resolver == nil {
		return delta
	}
	if c.colliders == nil {
		if !c.warnedNoCollider {
			logger.Warn("No collidable provider, moving without collision")
			c.warnedNoCollider = true
		}
		return delta
	}
	nearby := c.colliders.CollidablesNear(c.state.Position, c.resolver.ProbeRadius(delta))
	return c.resolver.Resolve(delta, c.state.Position, nearby)
}

// updateBob advances head-bob while moving and fades it out when stopped.
func (c *Controller) updateBob(dt, moved float32) {
	if moved > c.cfg.BobMinMovement {
		freq := c.cfg.BobFrequency
		if c.state.IsRunning {
			freq *= c.cfg.RunBobMultiplier
		}
		c.state.HeadBobPhase += freq * dt
		c.bobIntensity += (1 - c.bobIntensity) * math.Damp(c.cfg.BobFadeRate, dt)
	} else {
		// Fade, no snap back to rest
		fade := 1 - math.Damp(c.cfg.BobFadeRate, dt)
		c.bobIntensity *= fade
		c.state.HeadBobPhase *= fade
		c.breathPhase += c.cfg.BreathFrequency * dt
	}

	phase := float64(c.state.HeadBobPhase)
	vertical := float32(gomath.Sin(phase)) * c.cfg.BobAmplitude * c.bobIntensity
	sway := float32(gomath.Cos(phase/2)) * c.cfg.BobSway * c.bobIntensity
	breath := float32(gomath.Sin(float64(c.breathPhase))) * c.cfg.BreathAmplitude * (1 - c.bobIntensity)

	c.bobOffset = math.Up.Scale(vertical + breath).Add(math.Right(c.state.Yaw).Scale(sway))
}

// look applies focus override, mouse and arrow rotation, and disorientation.
func (c *Controller) look(dt float32, in InputState) {
	if c.focus.active {
		c.focus.elapsed += dt
		t := math.Clamp(c.focus.elapsed/c.cfg.FocusDuration, 0, 1)
		k := t * t * (3 - 2*t)
		c.state.Yaw = math.LerpAngle(c.focus.fromYaw, c.focus.toYaw, k)
		c.state.Pitch = c.focus.fromPitch + (c.focus.toPitch-c.focus.fromPitch)*k
		if t >= 1 {
			c.focus.active = false
			c.effects.TargetFocus = nil
		}
	} else {
		c.state.Yaw -= in.MouseDX * c.cfg.MouseSensitivity
		c.state.Pitch -= in.MouseDY * c.cfg.MouseSensitivity
		if in.RotateLeft {
			c.state.Yaw += c.cfg.RotateSpeed * dt
		}
		if in.RotateRight {
			c.state.Yaw -= c.cfg.RotateSpeed * dt
		}
	}

	if c.disorient > 0 {
		c.state.Yaw += (c.rng.Float32()*2 - 1) * c.cfg.DisorientJitter * c.disorient
		c.disorient -= c.disorientPeak * dt / c.cfg.DisorientDuration
		if c.disorient < 0 {
			c.disorient = 0
		}
	}

	c.state.Yaw = math.WrapAngle(c.state.Yaw)
	c.state.Pitch = math.Clamp(c.state.Pitch, -c.cfg.MaxPitch, c.cfg.MaxPitch)
}

// updateFOV eases toward the zoom, run or base field of view.
func (c *Controller) updateFOV(dt float32, running bool, wheel float32) {
	c.applyWheel(wheel)
	target := c.cfg.BaseFOV
	switch {
	case c.zoomTarget > 0:
		target = c.zoomTarget
	case running:
		target = c.cfg.RunFOV
	}
	c.fov += (target - c.fov) * math.Damp(c.cfg.FOVSmoothing, dt)
}

// applyWheel adjusts the zoom target. Zooming back out to the maximum
// releases the zoom.
func (c *Controller) applyWheel(wheel float32) {
	if wheel == 0 {
		return
	}
	z := c.zoomTarget
	if z == 0 {
		z = c.cfg.BaseFOV
	}
	z = math.Clamp(z-wheel*c.cfg.ZoomStep, c.cfg.ZoomMinFOV, c.cfg.ZoomMaxFOV)
	if z >= c.cfg.ZoomMaxFOV {
		z = 0
	}
	c.zoomTarget = z
}

// updateLocation tracks the current segment and triggers disorientation
// when it changes.
func (c *Controller) updateLocation() {
	if c.locator == nil {
		return
	}
	loc, ok := c.locator.Locate(c.state.Position)
	if !ok || loc.ID == c.state.CurrentSegmentID {
		return
	}
	prev := c.state.CurrentSegmentID
	c.state.CurrentSegmentID = loc.ID
	c.state.LastSegmentChange = c.clock

	if prev != "" {
		strength := c.cfg.DisorientBase
		if loc.Flagged {
			strength = c.cfg.DisorientFlagged
		}
		c.disorient = strength
		c.disorientPeak = strength
	}
	logger.Debug("Location changed", zap.String("from", prev), zap.String("to", loc.ID))
	for _, l := range c.listeners {
		l.OnSegmentChanged(prev, loc.ID, c.state.Position)
	}
}

// handleInteract toggles the nearest interactable on the interact key's
// rising edge and raises a focus hint when it opened nearby.
func (c *Controller) handleInteract(in InputState) {
	pressed := in.Interact && !c.interactHeld
	c.interactHeld = in.Interact
	if !pressed || c.interactable == nil {
		return
	}

	target, ok := c.interactable.NearestInteractable(c.state.Position, c.cfg.InteractRange)
	if !ok {
		return
	}
	result, ok := c.interactable.Interact(target.Name)
	if !ok || !result.Open {
		return
	}
	if c.state.Position.XZ().Distance(result.Position.XZ()) > c.cfg.FocusRange {
		return
	}
	c.FocusOn(result.Position.Add(math.Vec3{Y: c.cfg.FocusHeight}))
}

// FocusOn raises a focus hint turning the view toward point.
func (c *Controller) FocusOn(point math.Vec3) {
	p := point
	c.effects.TargetFocus = &p

	d := p.Sub(c.state.Position)
	horizontal := d.XZ().Length()
	c.focus = focus{
		active:    true,
		fromYaw:   c.state.Yaw,
		fromPitch: c.state.Pitch,
		toYaw:     c.state.Yaw,
		toPitch:   float32(gomath.Atan2(float64(d.Y), float64(horizontal))),
	}
	if horizontal > 1e-4 {
		c.focus.toYaw = math.YawOf(d)
	}
}

// sanitize resets the player to spawn after numerical blow-up.
func (c *Controller) sanitize() {
	if c.state.Position.IsFinite() && math.IsFinite(c.state.Yaw) && math.IsFinite(c.state.Pitch) {
		return
	}
	logger.Warn("Non-finite player state, resetting to spawn",
		zap.Float32("x", c.state.Position.X),
		zap.Float32("z", c.state.Position.Z),
		zap.Float32("yaw", c.state.Yaw))
	c.state.Position = c.spawn
	c.state.Yaw = c.spawnYaw
	c.state.Pitch = 0
	c.state.Velocity = math.Vec3{}
	c.state.HeadBobPhase = 0
	c.bobIntensity = 0
	c.bobOffset = math.Vec3{}
	c.focus = focus{}
	c.effects.TargetFocus = nil
}

func (c *Controller) buildFrame() Frame {
	return Frame{
		Position:       c.state.Position,
		CameraPosition: c.state.Position.Add(c.bobOffset),
		Yaw:            c.state.Yaw,
		Pitch:          c.state.Pitch,
		FOV:            c.fov,
		SegmentID:      c.state.CurrentSegmentID,
		Running:        c.state.IsRunning,
		Focusing:       c.focus.active,
		Disorientation: c.disorient,
	}
}
