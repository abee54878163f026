package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/presentation"
)

func main() {
	var bits, flips string
	flag.StringVar(&bits, "bits", "", "Palabra binaria, primer bit primero (ej: '1011')")
	flag.StringVar(&flips, "flip", "", "Posiciones del bloque a invertir antes de decodificar (ej: '3,5')")
	flag.Parse()

	if bits == "" {
		fmt.Fprintf(os.Stderr, "Uso: %s --bits <cadena_binaria> [--flip p1,p2]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Ejemplo: %s --bits 1011 --flip 6\n", os.Args[0])
		os.Exit(1)
	}

	word, err := presentation.ParseBits(bits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// El tamaño de palabra es la longitud de la entrada
	codec, err := frame.NewCodec(len(word))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error de configuración: %v\n", err)
		os.Exit(1)
	}
	block, err := codec.Encode(word)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error en codificación Hamming: %v\n", err)
		os.Exit(1)
	}

	layout := codec.Layout()
	fmt.Printf("Bits de entrada: %s (longitud: %d)\n", bits, len(word))
	fmt.Printf("Bits de paridad: %d, bloque: %d bits\n", layout.ParityBits(), layout.BlockSize())
	fmt.Printf("Bloque codificado: %s\n", presentation.FormatBits(block))

	fmt.Printf("\nDesglose del bloque:\n")
	for j, b := range block {
		switch {
		case j == 0:
			fmt.Printf("  [%2d] %d  paridad global\n", j, b)
		case frame.IsParityPosition(j):
			fmt.Printf("  [%2d] %d  paridad p%d\n", j, b, j)
		default:
			fmt.Printf("  [%2d] %d  dato\n", j, b)
		}
	}

	if flips == "" {
		return
	}
	for _, f := range strings.Split(flips, ",") {
		pos, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || pos < 0 || pos >= len(block) {
			fmt.Fprintf(os.Stderr, "Error: posición inválida %q (0..%d)\n", f, len(block)-1)
			os.Exit(1)
		}
		block[pos] ^= 1
	}

	res, err := codec.Decode(block)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error en decodificación: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nBloque recibido:   %s\n", presentation.FormatBits(block))
	fmt.Printf("Síndrome: %d\n", res.Syndrome)
	fmt.Printf("Resultado: %s (%d)\n", res.Category, int(res.Category))
	fmt.Printf("Palabra decodificada: %s\n", presentation.FormatBits(res.Word))
}
