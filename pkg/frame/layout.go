// Package frame implementa el código Hamming extendido (SECDED) parametrizado
// por tamaño de palabra y el armado de mensajes completos en bloques.
package frame

import (
	"github.com/pkg/errors"
)

var (
	// ErrNegativeWordSize indica un tamaño de palabra negativo
	ErrNegativeWordSize = errors.New("tamaño de palabra negativo")
	// ErrInvalidBlockSize indica un tamaño de bloque cero o negativo
	ErrInvalidBlockSize = errors.New("tamaño de bloque inválido")
	// ErrWordSizeTooSmall indica que el armado de mensajes necesita al menos 1 bit por palabra
	ErrWordSizeTooSmall = errors.New("el tamaño de palabra debe ser al menos 1")
)

// IsConfigurationError reporta si err proviene de una configuración inválida del código
func IsConfigurationError(err error) bool {
	switch errors.Cause(err) {
	case ErrNegativeWordSize, ErrInvalidBlockSize, ErrWordSizeTooSmall:
		return true
	}
	return false
}

// Mask marca con 1 las posiciones del bloque cubiertas por un bit de paridad
type Mask []byte

// Parity devuelve la paridad (cantidad mod 2) de los bits de block seleccionados por m
func (m Mask) Parity(block []byte) byte {
	var p byte
	for j, sel := range m {
		p ^= sel & block[j]
	}
	return p
}

// Layout describe la disposición de un bloque para un tamaño de palabra.
// Es inmutable y puede compartirse entre goroutines.
type Layout struct {
	wordSize   int
	parityBits int
	blockSize  int
	masks      []Mask
	dataPos    []int
}

// NewLayout calcula la cantidad de bits de paridad y las máscaras para n bits de datos
func NewLayout(n int) (*Layout, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrNegativeWordSize, "n=%d", n)
	}

	k := 0
	for uint64(1)<<uint(k) < uint64(n+k+1) {
		k++
	}
	l := &Layout{
		wordSize:   n,
		parityBits: k + 1, // posición 0: paridad global
	}
	l.blockSize = n + l.parityBits
	if l.blockSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidBlockSize, "n=%d bloque=%d", n, l.blockSize)
	}

	l.masks = make([]Mask, l.parityBits-1)
	for i := range l.masks {
		m := make(Mask, l.blockSize)
		for j := 0; j < l.blockSize; j++ {
			if j&(1<<uint(i)) != 0 {
				m[j] = 1
			}
		}
		l.masks[i] = m
	}

	l.dataPos = make([]int, 0, n)
	for j := 0; j < l.blockSize; j++ {
		if !IsParityPosition(j) {
			l.dataPos = append(l.dataPos, j)
		}
	}
	return l, nil
}

// IsParityPosition reporta si la posición j es 0 o potencia de dos
func IsParityPosition(j int) bool {
	return j&(j-1) == 0
}

// WordSize devuelve la cantidad de bits de datos por palabra
func (l *Layout) WordSize() int { return l.wordSize }

// ParityBits devuelve la cantidad de bits de paridad, incluida la global
func (l *Layout) ParityBits() int { return l.parityBits }

// BlockSize devuelve la cantidad total de bits por bloque
func (l *Layout) BlockSize() int { return l.blockSize }

// Mask devuelve la máscara del bit de paridad i (posición 1<<i)
func (l *Layout) Mask(i int) Mask { return l.masks[i] }

// DataPositions devuelve las posiciones del bloque que llevan datos, en orden
func (l *Layout) DataPositions() []int {
	return append([]int(nil), l.dataPos...)
}
