// Package noise inyecta errores sintéticos en bloques ya codificados para
// probar la resistencia del código. No forma parte del codec.
package noise

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/presentation"
)

var (
	// ErrInvalidBER indica un BER fuera de [0, 1]
	ErrInvalidBER = errors.New("BER inválido")
	// ErrInvalidProbability indica una probabilidad por bloque fuera de [0, 1]
	ErrInvalidProbability = errors.New("probabilidad de error inválida")
	// ErrTooManyErrors indica más errores que bits en el bloque
	ErrTooManyErrors = errors.New("cantidad de errores mayor al tamaño de bloque")
)

// NoiseLayer maneja la inyección de errores en la transmisión
type NoiseLayer struct {
	rng *rand.Rand
}

// NewNoiseLayer crea una nueva instancia con semilla aleatoria
func NewNoiseLayer() *NoiseLayer {
	return NewNoiseLayerWithSeed(time.Now().UnixNano())
}

// NewNoiseLayerWithSeed crea una instancia con semilla específica (para tests reproducibles)
func NewNoiseLayerWithSeed(seed int64) *NoiseLayer {
	return &NoiseLayer{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// ErrorResult contiene información sobre los errores inyectados
type ErrorResult struct {
	OriginalBits   []byte  // Bits originales
	NoisyBits      []byte  // Bits con ruido aplicado
	ErrorPositions []int   // Posiciones donde se inyectaron errores
	TotalBits      int     // Total de bits procesados
	ErrorsInjected int     // Cantidad de errores inyectados
	ActualBER      float64 // BER real obtenido
}

// AplicarRuido inyecta errores de bit con la probabilidad BER especificada
func (n *NoiseLayer) AplicarRuido(bits []byte, ber float64) (*ErrorResult, error) {
	if err := n.ValidarConfiguracion(ber, bits); err != nil {
		return nil, err
	}

	noisyBits := make([]byte, len(bits))
	copy(noisyBits, bits)

	var errorPositions []int
	for i := range noisyBits {
		if n.rng.Float64() < ber {
			noisyBits[i] ^= 1
			errorPositions = append(errorPositions, i)
		}
	}

	return &ErrorResult{
		OriginalBits:   bits,
		NoisyBits:      noisyBits,
		ErrorPositions: errorPositions,
		TotalBits:      len(bits),
		ErrorsInjected: len(errorPositions),
		ActualBER:      float64(len(errorPositions)) / float64(len(bits)),
	}, nil
}

// FlipBits invierte count posiciones distintas elegidas al azar dentro de
// block y devuelve las posiciones, en el orden en que se eligieron.
func (n *NoiseLayer) FlipBits(block []byte, count int) ([]int, error) {
	if count < 0 || count > len(block) {
		return nil, errors.Wrapf(ErrTooManyErrors, "%d errores en %d bits", count, len(block))
	}
	positions := n.rng.Perm(len(block))[:count]
	for _, p := range positions {
		block[p] ^= 1
	}
	return positions, nil
}

// ValidarConfiguracion valida los parámetros de ruido
func (n *NoiseLayer) ValidarConfiguracion(ber float64, bits []byte) error {
	if ber < 0.0 || ber > 1.0 {
		return errors.Wrapf(ErrInvalidBER, "%.3f (debe estar entre 0.0 y 1.0)", ber)
	}
	if len(bits) == 0 {
		return errors.New("no hay bits para procesar")
	}
	return presentation.ValidateBits(bits)
}
