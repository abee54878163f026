package noise

import (
	"github.com/pkg/errors"
)

// Injector corrompe bloques codificados antes de enviarlos.
//
// Cada bloque se corrompe con probabilidad Probability; si Probability es 0
// y Errors > 0 se corrompen todos. Un bloque corrompido recibe max(Errors, 1)
// errores en posiciones distintas.
type Injector struct {
	Errors      int
	Probability float64

	noise *NoiseLayer
}

// InjectionStats resume lo inyectado en un mensaje
type InjectionStats struct {
	Blocks          int
	CorruptedBlocks int
	BitsFlipped     int
	// PerBlock cuenta bloques según la cantidad de errores inyectados
	PerBlock map[int]int
}

// NewInjector crea un Injector sobre noise
func NewInjector(noise *NoiseLayer, errorsPerBlock int, probability float64) (*Injector, error) {
	if errorsPerBlock < 0 {
		return nil, errors.Wrapf(ErrTooManyErrors, "cantidad negativa: %d", errorsPerBlock)
	}
	if probability < 0 || probability > 1 {
		return nil, errors.Wrapf(ErrInvalidProbability, "%.3f (debe estar entre 0.0 y 1.0)", probability)
	}
	return &Injector{Errors: errorsPerBlock, Probability: probability, noise: noise}, nil
}

// Enabled reporta si el Injector puede modificar algún bloque
func (in *Injector) Enabled() bool {
	return in.Errors > 0 || in.Probability > 0
}

// InjectBlock corrompe block en el lugar y devuelve las posiciones invertidas
func (in *Injector) InjectBlock(block []byte) ([]int, error) {
	if !in.Enabled() {
		return nil, nil
	}
	if in.Probability > 0 && in.noise.rng.Float64() >= in.Probability {
		return nil, nil
	}
	count := in.Errors
	if count == 0 {
		count = 1
	}
	return in.noise.FlipBits(block, count)
}

// InjectBlocks aplica InjectBlock a cada bloque
func (in *Injector) InjectBlocks(blocks [][]byte) (*InjectionStats, error) {
	stats := &InjectionStats{Blocks: len(blocks), PerBlock: make(map[int]int)}
	for i, b := range blocks {
		positions, err := in.InjectBlock(b)
		if err != nil {
			return nil, errors.Wrapf(err, "bloque %d", i)
		}
		stats.PerBlock[len(positions)]++
		if len(positions) > 0 {
			stats.CorruptedBlocks++
			stats.BitsFlipped += len(positions)
		}
	}
	return stats, nil
}
