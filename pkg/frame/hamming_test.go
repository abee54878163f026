package frame

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/Diegoval-Dev/R-Lab2/hamming-go/pkg/presentation"
)

func mustCodec(t testing.TB, n int) *Codec {
	t.Helper()
	c, err := NewCodec(n)
	if err != nil {
		t.Fatalf("NewCodec(%d) error: %v", n, err)
	}
	return c
}

func randomWord(rng *rand.Rand, n int) []byte {
	w := make([]byte, n)
	for i := range w {
		w[i] = byte(rng.Intn(2))
	}
	return w
}

func flipped(block []byte, positions ...int) []byte {
	out := append([]byte(nil), block...)
	for _, p := range positions {
		out[p] ^= 1
	}
	return out
}

func TestEncode_Word1011(t *testing.T) {
	c := mustCodec(t, 4)
	word, _ := presentation.ParseBits("1011")
	want, _ := presentation.ParseBits("00110011")

	got, err := c.Encode(word)
	if err != nil {
		t.Fatalf("Error inesperado: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode(1011) = %s, want %s", presentation.FormatBits(got), presentation.FormatBits(want))
	}

	res, err := c.Decode(got)
	if err != nil {
		t.Fatalf("Error inesperado: %v", err)
	}
	if res.Category != Clean || !reflect.DeepEqual(res.Word, word) {
		t.Errorf("Decode() = (%s, %d), want (1011, 0)", presentation.FormatBits(res.Word), res.Category)
	}

	for i := 0; i < c.BlockSize(); i++ {
		res, _ := c.Decode(flipped(got, i))
		if res.Category != Corrected || !reflect.DeepEqual(res.Word, word) {
			t.Errorf("flip %d: Decode() = (%s, %d), want (1011, 1)", i, presentation.FormatBits(res.Word), res.Category)
		}
	}

	for i := 0; i < c.BlockSize(); i++ {
		for j := 0; j < c.BlockSize(); j++ {
			if i == j {
				continue
			}
			res, _ := c.Decode(flipped(got, i, j))
			if res.Category != Double {
				t.Errorf("flip %d,%d: category = %d, want 2", i, j, res.Category)
			}
		}
	}
}

func TestEncode_AllWords4(t *testing.T) {
	c := mustCodec(t, 4)
	for v := uint64(0); v < 16; v++ {
		word := presentation.UintToBits(v, 4)
		block, err := c.Encode(word)
		if err != nil {
			t.Fatal(err)
		}
		res, _ := c.Decode(block)
		if res.Category != Clean || !reflect.DeepEqual(res.Word, word) {
			t.Errorf("word %04b: Decode() = (%v, %d)", v, res.Word, res.Category)
		}
	}
}

func TestCodec_RandomWords(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for _, n := range []int{1, 2, 3, 5, 11, 26, 33, 57, 100} {
		c := mustCodec(t, n)
		for iter := 0; iter < 20; iter++ {
			word := randomWord(rng, n)
			block, err := c.Encode(word)
			if err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}

			res, _ := c.Decode(block)
			if res.Category != Clean || !reflect.DeepEqual(res.Word, word) {
				t.Fatalf("n=%d: round trip failed", n)
			}

			for i := 0; i < c.BlockSize(); i++ {
				res, _ := c.Decode(flipped(block, i))
				if res.Category != Corrected || !reflect.DeepEqual(res.Word, word) {
					t.Fatalf("n=%d flip %d: category %d", n, i, res.Category)
				}
			}

			i := rng.Intn(c.BlockSize())
			j := rng.Intn(c.BlockSize() - 1)
			if j >= i {
				j++
			}
			if res, _ := c.Decode(flipped(block, i, j)); res.Category != Double {
				t.Fatalf("n=%d flip %d,%d: category %d, want 2", n, i, j, res.Category)
			}
		}
	}
}

func TestDecode_AllDoubleErrors33(t *testing.T) {
	c := mustCodec(t, 33)
	block, _ := c.Encode(randomWord(rand.New(rand.NewSource(7)), 33))
	for i := 0; i < c.BlockSize(); i++ {
		for j := i + 1; j < c.BlockSize(); j++ {
			if res, _ := c.Decode(flipped(block, i, j)); res.Category != Double {
				t.Fatalf("flip %d,%d: category %d, want 2", i, j, res.Category)
			}
		}
	}
}

func TestDecode_Uncorrectable(t *testing.T) {
	c := mustCodec(t, 33)
	word := randomWord(rand.New(rand.NewSource(3)), 33)
	block, _ := c.Encode(word)

	// 32^8^1 = 41 >= 40: el síndrome queda fuera del bloque
	corrupted := flipped(block, 32, 8, 1)
	res, err := c.Decode(corrupted)
	if err != nil {
		t.Fatal(err)
	}
	if res.Category != Uncorrectable {
		t.Fatalf("category = %d, want -1", res.Category)
	}
	if res.Syndrome != 41 {
		t.Errorf("syndrome = %d, want 41", res.Syndrome)
	}
	if res.Category.Trusted() {
		t.Errorf("Uncorrectable no debe ser confiable")
	}
	if !reflect.DeepEqual(corrupted, flipped(block, 32, 8, 1)) {
		t.Errorf("Decode modificó el bloque recibido")
	}
}

func TestCodec_ZeroWordSize(t *testing.T) {
	c := mustCodec(t, 0)
	block, err := c.Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(block) != 1 || block[0] != 0 {
		t.Fatalf("Encode(vacío) = %v, want [0]", block)
	}
	if res, _ := c.Decode(block); res.Category != Clean || len(res.Word) != 0 {
		t.Errorf("Decode() = %+v", res)
	}
	if res, _ := c.Decode([]byte{1}); res.Category != Corrected {
		t.Errorf("Decode([1]) category = %d, want 1", res.Category)
	}
}

func TestCodec_InvalidInput(t *testing.T) {
	c := mustCodec(t, 4)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{
			name: "short word",
			run:  func() error { _, err := c.Encode([]byte{1, 0}); return err },
			want: ErrWordLength,
		},
		{
			name: "invalid bit in word",
			run:  func() error { _, err := c.Encode([]byte{1, 0, 2, 1}); return err },
			want: presentation.ErrInvalidBit,
		},
		{
			name: "short block",
			run:  func() error { _, err := c.Decode([]byte{0, 1}); return err },
			want: ErrBlockLength,
		},
		{
			name: "invalid bit in block",
			run:  func() error { _, err := c.Decode([]byte{0, 0, 1, 1, 0, 0, 1, 3}); return err },
			want: presentation.ErrInvalidBit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); errors.Cause(err) != tt.want {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func BenchmarkCodec_Encode(b *testing.B) {
	c := mustCodec(b, 33)
	word := randomWord(rand.New(rand.NewSource(1)), 33)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encode(word); err != nil {
			b.Fatalf("Encode failed: %v", err)
		}
	}
}

func BenchmarkCodec_Decode(b *testing.B) {
	c := mustCodec(b, 33)
	block, _ := c.Encode(randomWord(rand.New(rand.NewSource(1)), 33))
	block[5] ^= 1

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Decode(block); err != nil {
			b.Fatalf("Decode failed: %v", err)
		}
	}
}
