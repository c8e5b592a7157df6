package analysis

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// Levels are the peak and RMS amplitude of a sample, relative to full scale
// (1.0).
type Levels struct {
	Peak float32
	RMS  float32
}

// PeakDB returns the peak level in decibels relative to full scale; silent
// samples return -Inf.
func (l Levels) PeakDB() float64 {
	return 20 * math.Log10(float64(l.Peak))
}

// SampleLevels measures signed 8-bit PCM data. Empty data has zero levels.
func SampleLevels(data []byte) Levels {
	if len(data) == 0 {
		return Levels{}
	}
	x := make([]float32, len(data))
	for i, b := range data {
		x[i] = float32(int8(b)) / 128
	}
	squared := vek32.Mul_Into(make([]float32, len(x)), x, x)
	rms := float32(math.Sqrt(float64(vek32.Mean(squared))))
	vek32.Abs_Inplace(x)
	return Levels{Peak: vek32.Max(x), RMS: rms}
}
