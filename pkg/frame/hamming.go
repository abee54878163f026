package frame

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/presentation"
)

var (
	// ErrWordLength indica una palabra con longitud distinta al tamaño configurado
	ErrWordLength = errors.New("longitud de palabra inválida")
	// ErrBlockLength indica un bloque con longitud distinta al tamaño de bloque
	ErrBlockLength = errors.New("longitud de bloque inválida")
)

// Category clasifica el resultado de decodificar un bloque
type Category int

const (
	// Clean: sin errores
	Clean Category = 0
	// Corrected: un error, corregido
	Corrected Category = 1
	// Double: dos errores detectados, sin corrección
	Double Category = 2
	// Uncorrectable: el síndrome apunta fuera del bloque, muchos errores
	Uncorrectable Category = -1
)

// Categories lista todas las categorías en el orden en que se reportan
var Categories = []Category{Clean, Corrected, Double, Uncorrectable}

func (c Category) String() string {
	switch c {
	case Clean:
		return "sin errores"
	case Corrected:
		return "error simple corregido"
	case Double:
		return "error doble detectado"
	case Uncorrectable:
		return "errores múltiples"
	}
	return fmt.Sprintf("categoría(%d)", int(c))
}

// Trusted reporta si la palabra extraída es confiable
func (c Category) Trusted() bool {
	return c == Clean || c == Corrected
}

// Result es el resultado de Decode
type Result struct {
	Word     []byte
	Category Category
	Syndrome int
}

// Codec codifica y decodifica bloques Hamming extendidos con un Layout fijo.
// No tiene estado mutable: puede usarse desde varias goroutines.
type Codec struct {
	layout *Layout
}

// NewCodec crea un codec para palabras de n bits
func NewCodec(n int) (*Codec, error) {
	l, err := NewLayout(n)
	if err != nil {
		return nil, err
	}
	return &Codec{layout: l}, nil
}

// NewCodecWithLayout crea un codec que comparte un Layout ya calculado
func NewCodecWithLayout(l *Layout) *Codec {
	return &Codec{layout: l}
}

// Layout devuelve la disposición usada por el codec
func (c *Codec) Layout() *Layout { return c.layout }

// WordSize es un atajo para Layout().WordSize()
func (c *Codec) WordSize() int { return c.layout.wordSize }

// BlockSize es un atajo para Layout().BlockSize()
func (c *Codec) BlockSize() int { return c.layout.blockSize }

// Encode codifica una palabra de WordSize bits en un bloque de BlockSize bits.
//
// Los bits de datos ocupan las posiciones que no son 0 ni potencia de dos, en
// orden. Luego se calcula cada bit de paridad 1<<i con su máscara y al final
// la paridad global en la posición 0.
func (c *Codec) Encode(word []byte) ([]byte, error) {
	l := c.layout
	if len(word) != l.wordSize {
		return nil, errors.Wrapf(ErrWordLength, "esperado %d, obtenido %d", l.wordSize, len(word))
	}
	if err := presentation.ValidateBits(word); err != nil {
		return nil, err
	}

	block := make([]byte, l.blockSize)
	for j, pos := range l.dataPos {
		block[pos] = word[j]
	}
	for i, m := range l.masks {
		block[1<<uint(i)] = m.Parity(block)
	}
	var overall byte
	for _, b := range block {
		overall ^= b
	}
	block[0] = overall
	return block, nil
}

// Decode decodifica un bloque posiblemente corrupto. El bloque recibido no se modifica.
func (c *Codec) Decode(block []byte) (Result, error) {
	l := c.layout
	if len(block) != l.blockSize {
		return Result{}, errors.Wrapf(ErrBlockLength, "esperado %d, obtenido %d", l.blockSize, len(block))
	}
	if err := presentation.ValidateBits(block); err != nil {
		return Result{}, err
	}
	return c.decode(block), nil
}

// decode asume que block tiene BlockSize bits válidos
func (c *Codec) decode(block []byte) Result {
	l := c.layout

	syndrome := 0
	for i, m := range l.masks {
		syndrome |= int(m.Parity(block)) << uint(i)
	}
	var overall byte
	for _, b := range block {
		overall ^= b
	}

	res := Result{Syndrome: syndrome, Word: make([]byte, l.wordSize)}
	flip := -1
	switch {
	case overall == 1 && syndrome < l.blockSize:
		flip = syndrome
		res.Category = Corrected
	case overall == 1:
		res.Category = Uncorrectable
	case syndrome != 0:
		res.Category = Double
	default:
		res.Category = Clean
	}

	for j, pos := range l.dataPos {
		b := block[pos]
		if pos == flip {
			b ^= 1
		}
		res.Word[j] = b
	}
	return res
}
