// Package stream decodifica incrementalmente un flujo de símbolos recibido en
// fragmentos arbitrarios y reconstruye el mensaje original.
package stream

import (
	"fmt"
	"sort"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/presentation"
)

var log = logging.MustGetLogger("stream")

var (
	// ErrPartialBlock indica que el flujo terminó con un bloque incompleto
	ErrPartialBlock = errors.New("el flujo terminó con un bloque incompleto")
	// ErrMissingTrailer indica que el flujo terminó sin ningún bloque
	ErrMissingTrailer = errors.New("el flujo no contiene la palabra final")
	// ErrFinished indica un uso del decodificador después de Finish
	ErrFinished = errors.New("decodificador ya finalizado")
)

// IsFramingError reporta si err invalida la sesión completa
func IsFramingError(err error) bool {
	switch errors.Cause(err) {
	case presentation.ErrInvalidSymbol, ErrPartialBlock, ErrMissingTrailer:
		return true
	}
	return false
}

// Tally cuenta bloques por categoría de error
type Tally map[frame.Category]int

// Total devuelve la cantidad total de bloques contados
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Untrusted devuelve la cantidad de bloques cuya palabra no es confiable
func (t Tally) Untrusted() int {
	return t[frame.Double] + t[frame.Uncorrectable]
}

func (t Tally) String() string {
	cats := make([]int, 0, len(t))
	for c := range t {
		cats = append(cats, int(c))
	}
	sort.Ints(cats)
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = fmt.Sprintf("%d:%d", c, t[frame.Category(c)])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (t Tally) clone() Tally {
	out := make(Tally, len(frame.Categories))
	for _, c := range frame.Categories {
		out[c] = t[c]
	}
	return out
}

// Message es el resultado de una sesión terminada
type Message struct {
	Data   []byte
	Tally  Tally
	Blocks int
	// Tail es la cantidad de bits de relleno usada para recortar el mensaje
	Tail int
	// TrailerValid es false si la palabra final era inválida y se usó Tail = 0
	TrailerValid bool
}

// Decoder mantiene el estado de una sesión. No es seguro para uso concurrente.
type Decoder struct {
	codec   *frame.Codec
	pending []byte
	decoded []byte
	tally   Tally
	blocks  int
	err     error
}

// NewDecoder crea un decodificador de sesión sobre codec, que puede compartirse
func NewDecoder(codec *frame.Codec) (*Decoder, error) {
	if codec.WordSize() < 1 {
		return nil, errors.Wrapf(frame.ErrWordSizeTooSmall, "n=%d", codec.WordSize())
	}
	return &Decoder{
		codec: codec,
		tally: make(Tally, len(frame.Categories)),
	}, nil
}

// Feed agrega un fragmento de símbolos recibidos y decodifica todos los
// bloques completos disponibles. Los bits sobrantes quedan para la próxima llamada.
func (d *Decoder) Feed(chunk []byte) error {
	if d.err != nil {
		return d.err
	}

	var err error
	d.pending, err = presentation.AppendSymbolBits(d.pending, chunk)
	if err != nil {
		d.err = errors.Wrapf(err, "bloque %d", d.blocks)
		return d.err
	}

	bs := d.codec.BlockSize()
	full := len(d.pending) / bs
	for i := 0; i < full; i++ {
		block := d.pending[i*bs : (i+1)*bs]
		res, err := d.codec.Decode(block)
		if err != nil {
			d.err = errors.Wrapf(err, "bloque %d", d.blocks)
			return d.err
		}
		if log.IsEnabledFor(logging.DEBUG) {
			log.Debugf("bloque %d %s -> %s (%d)", d.blocks,
				presentation.FormatBits(block), presentation.FormatBits(res.Word), res.Category)
		}
		d.tally[res.Category]++
		d.decoded = append(d.decoded, res.Word...)
		d.blocks++
	}
	d.pending = append(d.pending[:0], d.pending[full*bs:]...)
	return nil
}

// Blocks devuelve la cantidad de bloques decodificados hasta ahora
func (d *Decoder) Blocks() int { return d.blocks }

// Buffered devuelve la cantidad de bits recibidos que aún no forman un bloque
func (d *Decoder) Buffered() int { return len(d.pending) }

// Tally devuelve una copia del conteo actual
func (d *Decoder) Tally() Tally { return d.tally.clone() }

// Finish se llama una vez al terminar el flujo. Quita la palabra final y el
// relleno y devuelve el mensaje reconstruido con el conteo de errores.
func (d *Decoder) Finish() (*Message, error) {
	if d.err != nil {
		return nil, d.err
	}
	defer func() {
		if d.err == nil {
			d.err = ErrFinished
		}
	}()

	if len(d.pending) != 0 {
		d.err = errors.Wrapf(ErrPartialBlock, "%d bits sobrantes de %d", len(d.pending), d.codec.BlockSize())
		return nil, d.err
	}
	if d.blocks == 0 {
		d.err = ErrMissingTrailer
		return nil, d.err
	}

	n := d.codec.WordSize()
	payload := d.decoded[:len(d.decoded)-n]
	msg := &Message{
		Tally:        d.tally.clone(),
		Blocks:       d.blocks,
		TrailerValid: true,
	}

	tail, ok := presentation.BitsToUint(d.decoded[len(d.decoded)-n:])
	if !ok {
		log.Warningf("palabra final inválida (relleno fuera de rango), se usa 0")
		msg.TrailerValid = false
	} else if tail >= uint64(n) {
		log.Warningf("palabra final inválida (relleno %d >= %d), se usa 0", tail, n)
		tail = 0
		msg.TrailerValid = false
	}
	if int(tail) > len(payload) {
		log.Warningf("relleno %d mayor que los datos (%d bits), se usa 0", tail, len(payload))
		tail = 0
		msg.TrailerValid = false
	}
	msg.Tail = int(tail)
	payload = payload[:len(payload)-msg.Tail]

	if r := len(payload) % 8; r != 0 {
		log.Warningf("se descartan %d bits finales que no forman un byte", r)
		payload = payload[:len(payload)-r]
	}
	data, err := presentation.BitsToBytes(payload)
	if err != nil {
		d.err = err
		return nil, err
	}
	msg.Data = data

	log.Infof("bloques: %d, errores simples: %d, dobles: %d, múltiples: %d",
		d.blocks, d.tally[frame.Corrected], d.tally[frame.Double], d.tally[frame.Uncorrectable])
	return msg, nil
}
