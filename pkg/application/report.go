package application

import (
	"fmt"
	"time"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/noise"
	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/stream"
)

// MostrarErrores muestra el conteo de bloques por categoría de un mensaje recibido
func (app *ApplicationLayer) MostrarErrores(msg *stream.Message) {
	fmt.Fprintln(app.out, "\n📊 Bloques recibidos:")
	fmt.Fprintln(app.out, "─────────────────────────────")
	fmt.Fprintf(app.out, "Total de bloques: %d\n", msg.Blocks)
	for _, c := range frame.Categories {
		fmt.Fprintf(app.out, "%-24s %d\n", c.String()+":", msg.Tally[c])
	}
	if !msg.TrailerValid {
		fmt.Fprintln(app.out, "⚠️  Palabra final inválida, relleno asumido 0")
	}
	if n := msg.Tally.Untrusted(); n > 0 {
		fmt.Fprintf(app.out, "⚠️  %d bloques no confiables\n", n)
	}
	fmt.Fprintln(app.out)
}

// MostrarInyeccion muestra los errores inyectados antes de enviar
func (app *ApplicationLayer) MostrarInyeccion(stats *noise.InjectionStats) {
	if stats == nil {
		return
	}
	fmt.Fprintf(app.out, "📡 %d de %d bloques corrompidos, %d bits invertidos\n",
		stats.CorruptedBlocks, stats.Blocks, stats.BitsFlipped)
}

// Estadisticas resume una serie de transmisiones simuladas
type Estadisticas struct {
	Total      int
	Successful int
	Failed     int
	Tally      stream.Tally
	TotalTime  time.Duration
}

// Agregar suma el resultado de una transmisión
func (e *Estadisticas) Agregar(ok bool, tally stream.Tally, elapsed time.Duration) {
	e.Total++
	if ok {
		e.Successful++
	} else {
		e.Failed++
	}
	if e.Tally == nil {
		e.Tally = make(stream.Tally, len(frame.Categories))
	}
	for c, n := range tally {
		e.Tally[c] += n
	}
	e.TotalTime += elapsed
}

// SuccessRate devuelve la fracción de transmisiones reconstruidas sin diferencias
func (e *Estadisticas) SuccessRate() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Successful) / float64(e.Total)
}

// MostrarEstadisticas muestra estadísticas de benchmark
func (app *ApplicationLayer) MostrarEstadisticas(e *Estadisticas) {
	fmt.Fprintln(app.out, "\n📊 Estadísticas de Benchmark:")
	fmt.Fprintln(app.out, "─────────────────────────────")
	fmt.Fprintf(app.out, "Total de mensajes: %d\n", e.Total)
	fmt.Fprintf(app.out, "Exitosos: %d\n", e.Successful)
	fmt.Fprintf(app.out, "Fallidos: %d\n", e.Failed)
	fmt.Fprintf(app.out, "Tasa de éxito: %.2f%%\n", e.SuccessRate()*100)
	if e.Total > 0 {
		avg := e.TotalTime.Seconds() / float64(e.Total)
		fmt.Fprintf(app.out, "Tiempo promedio: %.2fms\n", avg*1000)
	}
	for _, c := range frame.Categories {
		fmt.Fprintf(app.out, "Bloques con %s: %d\n", c, e.Tally[c])
	}
	fmt.Fprintln(app.out)
}
