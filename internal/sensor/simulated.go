package sensor

import (
	"math/rand/v2"
	"sync"

	"codeberg.org/mutker/envsensed/internal/codec"
)

// Bounds of the simulated readings.
const (
	simTempMin, simTempMax         = -10.0, 40.0
	simHumidityMin, simHumidityMax = 0.0, 100.0
	simPressureMin, simPressureMax = 95.0, 105.0
	simColorMax                    = 4096

	// Number of ColorAvailable polls before a color reading becomes ready.
	simColorLatency = 2
)

// simulatedSource is a bounded random walk around typical indoor values.
type simulatedSource struct {
	mu       sync.Mutex
	rng      *rand.Rand
	temp     float64
	humidity float64
	pressure float64
	color    codec.RGBA
	pending  int
}

// NewSimulated returns a Source producing plausible readings without any
// hardware. Equal seeds produce equal sequences.
func NewSimulated(seed uint64) Source {
	return &simulatedSource{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		temp:     21.5,
		humidity: 45.0,
		pressure: 101.325,
		color:    codec.RGBA{R: 120, G: 160, B: 90, A: 300},
		pending:  simColorLatency,
	}
}

func (s *simulatedSource) walk(v, step, lo, hi float64) float64 {
	v += (s.rng.Float64()*2 - 1) * step
	return min(max(v, lo), hi)
}

func (s *simulatedSource) walkInt(v, step, hi int) int {
	v += s.rng.IntN(2*step+1) - step
	return min(max(v, 0), hi)
}

func (s *simulatedSource) ReadTemperature() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.temp = s.walk(s.temp, 0.05, simTempMin, simTempMax)
	return s.temp, nil
}

func (s *simulatedSource) ReadHumidity() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.humidity = s.walk(s.humidity, 0.2, simHumidityMin, simHumidityMax)
	return s.humidity, nil
}

func (s *simulatedSource) ReadPressure() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pressure = s.walk(s.pressure, 0.01, simPressureMin, simPressureMax)
	return s.pressure, nil
}

func (s *simulatedSource) ColorAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending > 0 {
		s.pending--
		return false
	}
	return true
}

func (s *simulatedSource) ReadColor() (codec.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.color = codec.RGBA{
		R: s.walkInt(s.color.R, 8, simColorMax),
		G: s.walkInt(s.color.G, 8, simColorMax),
		B: s.walkInt(s.color.B, 8, simColorMax),
		A: s.walkInt(s.color.A, 8, simColorMax),
	}
	s.pending = simColorLatency
	return s.color, nil
}

func (s *simulatedSource) Close() error {
	return nil
}
