// Package player implements the first-person controller: input to movement,
// collision delegation and the camera effects layered on the result.
package player

// Config tunes movement, look and camera effects. Angles are radians,
// FOV values are degrees.
type Config struct {
	EyeHeight float32 `yaml:"eye_height"`
	WalkSpeed float32 `yaml:"walk_speed"`
	RunSpeed  float32 `yaml:"run_speed"`

	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	RotateSpeed      float32 `yaml:"rotate_speed"` // Arrow keys
	MaxPitch         float32 `yaml:"max_pitch"`

	BobFrequency     float32 `yaml:"bob_frequency"`
	BobAmplitude     float32 `yaml:"bob_amplitude"`
	BobSway          float32 `yaml:"bob_sway"` // Horizontal amplitude
	RunBobMultiplier float32 `yaml:"run_bob_multiplier"`
	BobMinMovement   float32 `yaml:"bob_min_movement"`
	BobFadeRate      float32 `yaml:"bob_fade_rate"`

	BreathFrequency float32 `yaml:"breath_frequency"`
	BreathAmplitude float32 `yaml:"breath_amplitude"`

	BaseFOV      float32 `yaml:"base_fov"`
	RunFOV       float32 `yaml:"run_fov"`
	ZoomMinFOV   float32 `yaml:"zoom_min_fov"`
	ZoomMaxFOV   float32 `yaml:"zoom_max_fov"`
	ZoomStep     float32 `yaml:"zoom_step"`
	FOVSmoothing float32 `yaml:"fov_smoothing"`

	InteractRange float32 `yaml:"interact_range"`
	FocusRange    float32 `yaml:"focus_range"`
	FocusDuration float32 `yaml:"focus_duration"`
	FocusHeight   float32 `yaml:"focus_height"` // Added to the target's Y

	DisorientBase     float32 `yaml:"disorient_base"`
	DisorientFlagged  float32 `yaml:"disorient_flagged"`
	DisorientDuration float32 `yaml:"disorient_duration"`
	DisorientJitter   float32 `yaml:"disorient_jitter"` // Max yaw step per frame at full strength
}

// DefaultConfig returns the office walk tuning.
func DefaultConfig() Config {
	return Config{
		EyeHeight: 1.6,
		WalkSpeed: 3,
		RunSpeed:  6,

		MouseSensitivity: 0.002,
		RotateSpeed:      2,
		MaxPitch:         1.4,

		BobFrequency:     10,
		BobAmplitude:     0.05,
		BobSway:          0.03,
		RunBobMultiplier: 1.5,
		BobMinMovement:   1e-3,
		BobFadeRate:      6,

		BreathFrequency: 1.5,
		BreathAmplitude: 0.01,

		BaseFOV:      75,
		RunFOV:       85,
		ZoomMinFOV:   30,
		ZoomMaxFOV:   75,
		ZoomStep:     5,
		FOVSmoothing: 8,

		InteractRange: 2.5,
		FocusRange:    3,
		FocusDuration: 0.8,
		FocusHeight:   1.5,

		DisorientBase:     0.2,
		DisorientFlagged:  0.5,
		DisorientDuration: 2,
		DisorientJitter:   0.05,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	fill := func(v *float32, def float32) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&c.EyeHeight, d.EyeHeight)
	fill(&c.WalkSpeed, d.WalkSpeed)
	fill(&c.RunSpeed, d.RunSpeed)
	fill(&c.MouseSensitivity, d.MouseSensitivity)
	fill(&c.RotateSpeed, d.RotateSpeed)
	fill(&c.MaxPitch, d.MaxPitch)
	fill(&c.BobFrequency, d.BobFrequency)
	fill(&c.RunBobMultiplier, d.RunBobMultiplier)
	fill(&c.BobMinMovement, d.BobMinMovement)
	fill(&c.BobFadeRate, d.BobFadeRate)
	fill(&c.BreathFrequency, d.BreathFrequency)
	fill(&c.BaseFOV, d.BaseFOV)
	fill(&c.RunFOV, d.RunFOV)
	fill(&c.ZoomMinFOV, d.ZoomMinFOV)
	fill(&c.ZoomMaxFOV, d.ZoomMaxFOV)
	fill(&c.ZoomStep, d.ZoomStep)
	fill(&c.FOVSmoothing, d.FOVSmoothing)
	fill(&c.InteractRange, d.InteractRange)
	fill(&c.FocusRange, d.FocusRange)
	fill(&c.FocusDuration, d.FocusDuration)
	fill(&c.DisorientDuration, d.DisorientDuration)
	// Amplitudes may legitimately be zero to disable an effect
	return c
}
