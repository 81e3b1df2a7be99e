package tamp

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestPatternCodesArePrefixFree(t *testing.T) {
	for i, a := range patternCodes {
		for j, b := range patternCodes {
			if i == j {
				continue
			}
			shorter, longer := a, b
			if shorter.nbits > longer.nbits {
				shorter, longer = longer, shorter
			}
			prefix := longer.code >> (longer.nbits - shorter.nbits)
			assert.Check(t, prefix != shorter.code, "code %d is a prefix of code %d", shorter.idx, longer.idx)
		}
	}
}

func TestDecodePatternLengthIndexMatchesEveryCode(t *testing.T) {
	for _, hc := range patternCodes {
		var w BitWriter
		w.Write(hc.code, hc.nbits)
		out := make([]byte, 4)
		n := w.Finalize(out)

		var r BitReader
		r.SetInput(out[:n])
		_, err := r.Read(1) // leading 0 bit, consumed by the dispatch loop before this call in real use
		assert.NilError(t, err)
		idx, err := decodePatternLengthIndex(&r)
		assert.NilError(t, err)
		assert.Equal(t, idx, hc.idx)
	}
}
