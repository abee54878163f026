package presentation

import (
	"github.com/pkg/errors"
)

// Símbolos ASCII usados en el cable, un byte por bit
const (
	SymbolZero byte = '0'
	SymbolOne  byte = '1'
)

// ErrInvalidSymbol indica un byte del flujo que no es '0' ni '1'
var ErrInvalidSymbol = errors.New("símbolo desconocido")

// BitsToSymbols convierte bits a símbolos ASCII para transmisión
func BitsToSymbols(bits []byte) []byte {
	symbols := make([]byte, len(bits))
	for i, b := range bits {
		symbols[i] = SymbolZero + (b & 1)
	}
	return symbols
}

// AppendSymbolBits valida los símbolos recibidos y agrega sus bits a dst.
// Ante un símbolo inválido no se agrega nada.
func AppendSymbolBits(dst []byte, symbols []byte) ([]byte, error) {
	for i, s := range symbols {
		if s != SymbolZero && s != SymbolOne {
			return dst, errors.Wrapf(ErrInvalidSymbol, "byte 0x%02x en posición %d", s, i)
		}
	}
	for _, s := range symbols {
		dst = append(dst, s-SymbolZero)
	}
	return dst, nil
}

// SymbolsToBits convierte símbolos ASCII a bits
func SymbolsToBits(symbols []byte) ([]byte, error) {
	return AppendSymbolBits(make([]byte, 0, len(symbols)), symbols)
}
