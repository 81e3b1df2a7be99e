package tamp

// commonBytes is the fixed 16-byte table used to turn xorshift32 state
// into window filler bytes (§4.2).
var commonBytes = [16]byte{
	0x20, 0x00, 0x30, 0x65, 0x69, 0x3E, 0x74, 0x6F,
	0x3C, 0x61, 0x6E, 0x73, 0x0A, 0x72, 0x2F, 0x2E,
}

// window is the sliding dictionary: a fixed-size ring of the most
// recently emitted bytes, shared by a Compressor and its Decompressor as
// the source of back-references and the replay buffer, respectively.
// Both mutate it identically: every produced byte is written at pos,
// which then advances by one modulo len(data).
//
// Grounded on doboz's Dictionary (dictionary.go): the "one struct owns
// the buffer plus a cursor that both sides advance identically" shape
// survives; doboz's hash-table/binary-tree match index does not (see
// Compressor.findMatchAt) because this spec's match search and fill
// algorithm are fully specified rather than being a performance choice.
type window struct {
	data []byte
	pos  int
}

// init seeds storage (which must have exactly 1<<cfg.WindowBits bytes)
// with the configured dictionary, then adopts it as the window's backing
// array.
func (w *window) init(cfg Config, storage []byte) {
	if cfg.UseCustomDictionary {
		copy(storage, cfg.CustomDictionary)
	} else {
		fillDeterministic(storage)
	}
	w.data = storage
	w.pos = 0
}

// put writes b at the current cursor and advances it.
func (w *window) put(b byte) {
	w.data[w.pos] = b
	w.pos++
	if w.pos == len(w.data) {
		w.pos = 0
	}
}

// fillDeterministic fills storage with the pseudo-random dictionary
// content described in §4.2: an xorshift32 generator seeded with a fixed
// constant, packed 8 bytes per 32-bit state through the 16-entry
// commonBytes lookup table.
func fillDeterministic(storage []byte) {
	var s uint32 = 3_758_097_560
	i := 0
	for i < len(storage) {
		s ^= s << 13
		s ^= s >> 17
		s ^= s << 5

		for k := 0; k < 8 && i < len(storage); k++ {
			storage[i] = commonBytes[(s>>(4*uint(k)))&0xF]
			i++
		}
	}
}
