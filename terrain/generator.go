package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Generator produces the deterministic shape of a cell. Implementations must
// return the same shape for the same cell every time.
type Generator interface {
	Shape(cell Cell) Shape
}

// FlatGenerator yields constant layers stacked RowHeight apart.
type FlatGenerator struct {
	RowHeight float64
}

func (g FlatGenerator) Shape(cell Cell) Shape {
	return Shape{Kind: ShapeConstant, Base: float64(cell.Row) * g.RowHeight}
}

// NoiseGenerator picks a shape kind per cell from a seeded hash and scales it
// with perlin noise so neighbouring layers vary smoothly.
type NoiseGenerator struct {
	seed         int64
	rowHeight    float64
	layerWidth   float64
	maxAmplitude float64
	noise        *perlin.Perlin
}

const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = int32(3)
	noiseScale   = 0.37
)

func NewNoiseGenerator(seed int64, rowHeight, layerWidth, maxAmplitude float64) *NoiseGenerator {
	return &NoiseGenerator{
		seed:         seed,
		rowHeight:    rowHeight,
		layerWidth:   layerWidth,
		maxAmplitude: maxAmplitude,
		noise:        perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

func (g *NoiseGenerator) Shape(cell Cell) Shape {
	base := float64(cell.Row) * g.rowHeight
	n := g.noise.Noise2D(float64(cell.Col)*noiseScale+0.5, float64(cell.Row)*noiseScale+0.5)
	amp := math.Min(math.Abs(n)*2, 1) * g.maxAmplitude

	kind := ShapeKind(Hash2(uint32(g.seed), int32(cell.Row), int32(cell.Col)) % uint32(shapeKindCount))
	switch kind {
	case ShapeLinear:
		slope := amp / (g.layerWidth / 2)
		if n < 0 {
			slope = -slope
		}
		return Shape{Kind: ShapeLinear, Base: base, Slope: slope}
	case ShapeCosine:
		freq := float64(1 + Hash2(uint32(g.seed)^0x5bd1e995, int32(cell.Row), int32(cell.Col))%2)
		return Shape{Kind: ShapeCosine, Base: base, Amplitude: amp, Frequency: freq}
	default:
		return Shape{Kind: ShapeConstant, Base: base}
	}
}

// Hash32 mixes 32-bit input into a well-distributed 32-bit output.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash2 returns a stable hash for a 2D integer coordinate and seed.
func Hash2(seed uint32, x, y int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	return Hash32(h)
}
