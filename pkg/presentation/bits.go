// Package presentation convierte entre bytes y su representación en bits.
//
// Todo el proyecto usa un único orden de bits: dentro de cada byte el bit
// menos significativo va primero. Un bit se representa como un byte con
// valor 0 o 1.
package presentation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidBit se devuelve cuando un slice de bits contiene algo distinto de 0 o 1
var ErrInvalidBit = errors.New("bit inválido")

// BytesToBits convierte bytes a bits, LSB primero en cada byte
func BytesToBits(data []byte) []byte {
	bits := make([]byte, len(data)*8)
	for i, b := range data {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = (b >> j) & 1
		}
	}
	return bits
}

// BitsToBytes agrupa los bits de 8 en 8 (LSB primero) y devuelve los bytes.
// La longitud debe ser múltiplo de 8.
func BitsToBytes(bits []byte) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("la longitud de bits (%d) no es múltiplo de 8", len(bits))
	}
	if err := ValidateBits(bits); err != nil {
		return nil, err
	}

	data := make([]byte, len(bits)/8)
	for i := range data {
		var v byte
		for j := 0; j < 8; j++ {
			v |= bits[i*8+j] << j
		}
		data[i] = v
	}
	return data, nil
}

// UintToBits escribe v como entero sin signo de width bits, LSB primero.
// Los bits por encima de 64 quedan en cero.
func UintToBits(v uint64, width int) []byte {
	bits := make([]byte, width)
	for i := 0; i < width && i < 64; i++ {
		bits[i] = byte((v >> uint(i)) & 1)
	}
	return bits
}

// BitsToUint interpreta los bits como entero sin signo, LSB primero.
// ok es false si algún bit a partir de la posición 64 está en uno.
func BitsToUint(bits []byte) (v uint64, ok bool) {
	for i, b := range bits {
		if b == 0 {
			continue
		}
		if i >= 64 {
			return 0, false
		}
		v |= 1 << uint(i)
	}
	return v, true
}

// ValidateBits verifica que todos los valores sean 0 o 1
func ValidateBits(bits []byte) error {
	for i, b := range bits {
		if b != 0 && b != 1 {
			return errors.Wrapf(ErrInvalidBit, "posición %d: %d (debe ser 0 o 1)", i, b)
		}
	}
	return nil
}

// FormatBits devuelve los bits como cadena de '0' y '1' en el mismo orden
func FormatBits(bits []byte) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		if b == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseBits convierte una cadena binaria (ej: "1011") a bits, primer carácter primero
func ParseBits(s string) ([]byte, error) {
	bits := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			bits[i] = 1
		default:
			return nil, errors.Wrapf(ErrInvalidSymbol, "carácter '%c' en posición %d", s[i], i)
		}
	}
	return bits, nil
}
