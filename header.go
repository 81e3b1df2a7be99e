package tamp

// writeHeader packs the 5 configuration fields from §4.3 into the
// leading byte of the bit stream, most-significant-bit first:
// window_bits-8 (3 bits), literal_bits-5 (2 bits), use_custom_dictionary
// (1 bit), a reserved 0 bit, and more_header_bytes (1 bit, always 0 in
// this version) — 8 bits in total, filling the byte exactly.
//
// Grounded on doboz's encodeHeader/decodeHeader (compressor.go,
// decompressor.go): same idea of packing small config fields into a
// leading byte with explicit shifting, narrowed to this spec's bit
// layout and written through the shared BitWriter instead of doboz's raw
// byte slicing, since this header rides the same bit-packed stream as
// the tokens that follow it rather than a separate byte-aligned section.
func writeHeader(w *BitWriter, cfg Config) {
	var bits uint32
	bits |= uint32(cfg.WindowBits-8) << 5
	bits |= uint32(cfg.LiteralBits-5) << 3
	if cfg.UseCustomDictionary {
		bits |= 1 << 2
	}
	// reserved bit and more_header_bytes bit are both 0.
	w.Write(bits, 8)
}

// readHeader decodes the leading header byte's fields into a Config
// (WindowBits, LiteralBits, UseCustomDictionary only — CustomDictionary
// is supplied separately by the caller if needed). It fails with
// ErrInvalidConf if any decoded field is out of range or if
// more_header_bytes is set, since this version defines no further header
// bytes.
func readHeader(r *BitReader) (Config, error) {
	var cfg Config

	windowBitsField, err := r.Read(3)
	if err != nil {
		return cfg, err
	}
	literalBitsField, err := r.Read(2)
	if err != nil {
		return cfg, err
	}
	useCustom, err := r.Read(1)
	if err != nil {
		return cfg, err
	}
	_, err = r.Read(1) // reserved
	if err != nil {
		return cfg, err
	}
	moreHeaderBytes, err := r.Read(1)
	if err != nil {
		return cfg, err
	}

	cfg.WindowBits = int(windowBitsField) + 8
	cfg.LiteralBits = int(literalBitsField) + 5
	cfg.UseCustomDictionary = useCustom != 0

	if moreHeaderBytes != 0 {
		return cfg, ErrInvalidConf
	}
	if cfg.WindowBits < 8 || cfg.WindowBits > 15 {
		return cfg, ErrInvalidConf
	}
	if cfg.LiteralBits < 5 || cfg.LiteralBits > 8 {
		return cfg, ErrInvalidConf
	}
	return cfg, nil
}
