package tamp

import (
	"testing"

	"gotest.tools/v3/assert"
	"pgregory.net/rapid"
)

// TestHeaderRoundTrip covers universal property 5: every valid
// (window_bits, literal_bits, use_custom_dictionary) triple survives an
// encode/decode round trip unchanged.
func TestHeaderRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := Config{
			WindowBits:          rapid.IntRange(8, 15).Draw(t, "window_bits"),
			LiteralBits:         rapid.IntRange(5, 8).Draw(t, "literal_bits"),
			UseCustomDictionary: rapid.Bool().Draw(t, "use_custom_dictionary"),
		}

		var w BitWriter
		writeHeader(&w, cfg)
		out := make([]byte, 4)
		n := w.Finalize(out)

		var r BitReader
		r.SetInput(out[:n])
		got, err := readHeader(&r)
		assert.NilError(t, err)
		assert.Equal(t, got.WindowBits, cfg.WindowBits)
		assert.Equal(t, got.LiteralBits, cfg.LiteralBits)
		assert.Equal(t, got.UseCustomDictionary, cfg.UseCustomDictionary)
	})
}

func TestReadHeaderRejectsMoreHeaderBytes(t *testing.T) {
	var w BitWriter
	w.Write(0b0100000, 7)
	w.Write(1, 1) // more_header_bytes = 1
	out := make([]byte, 2)
	n := w.Finalize(out)

	var r BitReader
	r.SetInput(out[:n])
	_, err := readHeader(&r)
	assert.ErrorIs(t, err, ErrInvalidConf)
}

func TestReadHeaderFailsOnEmptyInput(t *testing.T) {
	_, _, err := ReadHeader(nil)
	assert.ErrorIs(t, err, ErrInputExhausted)
}
