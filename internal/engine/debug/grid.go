package debug

import (
	gomath "math"

	"github.com/Faultbox/officewalk/pkg/math"
)

// GridLines covers the rectangle [min, max] on the XZ plane at height y with
// lines every step units, snapped outward to whole steps.
func GridLines(dst []LineVertex, min, max math.Vec2, step, y float32, c Color) []LineVertex {
	if step <= 0 {
		return dst
	}
	x0 := float32(gomath.Floor(float64(min.X/step))) * step
	x1 := float32(gomath.Ceil(float64(max.X/step))) * step
	z0 := float32(gomath.Floor(float64(min.Y/step))) * step
	z1 := float32(gomath.Ceil(float64(max.Y/step))) * step

	for x := x0; x <= x1+step/2; x += step {
		dst = append(dst,
			vertex(math.Vec3{X: x, Y: y, Z: z0}, c),
			vertex(math.Vec3{X: x, Y: y, Z: z1}, c))
	}
	for z := z0; z <= z1+step/2; z += step {
		dst = append(dst,
			vertex(math.Vec3{X: x0, Y: y, Z: z}, c),
			vertex(math.Vec3{X: x1, Y: y, Z: z}, c))
	}
	return dst
}

// Marker draws a three-axis cross of the given half size at p.
func Marker(dst []LineVertex, p math.Vec3, size float32, c Color) []LineVertex {
	for _, axis := range [3]math.Vec3{{X: size}, {Y: size}, {Z: size}} {
		dst = append(dst, vertex(p.Sub(axis), c), vertex(p.Add(axis), c))
	}
	return dst
}

// Arrow draws a flat heading arrow of the given length from p along yaw.
func Arrow(dst []LineVertex, p math.Vec3, yaw, length float32, c Color) []LineVertex {
	tip := p.Add(math.Forward(yaw).Scale(length))
	back := math.Forward(yaw).Scale(-length * 0.3)
	left := tip.Add(back.RotateY(0.5))
	right := tip.Add(back.RotateY(-0.5))
	return append(dst,
		vertex(p, c), vertex(tip, c),
		vertex(tip, c), vertex(left, c),
		vertex(tip, c), vertex(right, c))
}
