package frame

import (
	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/presentation"
)

// Framer divide un mensaje en palabras, agrega la palabra final con la
// cantidad de bits de relleno y codifica cada palabra en un bloque.
type Framer struct {
	codec *Codec
}

// NewFramer crea un Framer sobre codec. El tamaño de palabra debe ser al menos 1.
func NewFramer(codec *Codec) (*Framer, error) {
	if codec.WordSize() < 1 {
		return nil, errors.Wrapf(ErrWordSizeTooSmall, "n=%d", codec.WordSize())
	}
	return &Framer{codec: codec}, nil
}

// Codec devuelve el codec usado
func (f *Framer) Codec() *Codec { return f.codec }

// Words devuelve las palabras de n bits del mensaje: primero los datos con
// relleno de ceros y al final la palabra con la cantidad de bits de relleno.
func (f *Framer) Words(message []byte) [][]byte {
	n := f.codec.WordSize()
	bits := presentation.BytesToBits(message)

	tail := 0
	if r := len(bits) % n; r != 0 {
		tail = n - r
	}
	bits = append(bits, make([]byte, tail)...)

	words := make([][]byte, 0, len(bits)/n+1)
	for i := 0; i < len(bits); i += n {
		words = append(words, bits[i:i+n])
	}
	return append(words, presentation.UintToBits(uint64(tail), n))
}

// EncodeBlocks codifica cada palabra del mensaje y devuelve un bloque por palabra
func (f *Framer) EncodeBlocks(message []byte) ([][]byte, error) {
	words := f.Words(message)
	blocks := make([][]byte, len(words))
	for i, w := range words {
		b, err := f.codec.Encode(w)
		if err != nil {
			return nil, errors.Wrapf(err, "palabra %d", i)
		}
		blocks[i] = b
	}
	return blocks, nil
}

// Encode devuelve el flujo de bits completo del mensaje
func (f *Framer) Encode(message []byte) ([]byte, error) {
	blocks, err := f.EncodeBlocks(message)
	if err != nil {
		return nil, err
	}
	return Join(blocks), nil
}

// Join concatena bloques en orden
func Join(blocks [][]byte) []byte {
	size := 0
	for _, b := range blocks {
		size += len(b)
	}
	out := make([]byte, 0, size)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// BuildFrame recibe un payload y devuelve la trama lista para el cable:
// bloques Hamming concatenados, un símbolo ASCII '0'/'1' por bit.
func BuildFrame(f *Framer, payload []byte) ([]byte, error) {
	bits, err := f.Encode(payload)
	if err != nil {
		return nil, err
	}
	return presentation.BitsToSymbols(bits), nil
}
