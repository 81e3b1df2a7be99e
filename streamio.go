package tamp

import "io"

// Stream wraps an underlying io.Reader, io.Writer, or both, driving a
// Compressor or Decompressor across it with small fixed internal
// buffers. This is the idiomatic realization of the abstract streaming
// adapter in §11: Go programs consume and produce data through
// io.Reader/io.Writer, so that is the surface Stream exposes rather than
// a bespoke push/pull interface.
//
// Grounded on doboz's file-level helpers (CompressFile/DecompressFile in
// the original project's command-line entry point) generalized from
// *os.File specifically to any io.Reader/io.Writer/io.Closer, per
// SPEC_FULL.md §11's two-constructor resolution of the file-ownership
// open question.
type Stream struct {
	r      io.Reader
	w      io.Writer
	closer io.Closer
	owned  bool
}

// NewOwnedStream wraps rwc and takes ownership of it: Close closes rwc.
// Use this when Stream itself opened the underlying resource (e.g. a
// file opened by the CLI).
func NewOwnedStream(rwc io.ReadWriteCloser) *Stream {
	return &Stream{r: rwc, w: rwc, closer: rwc, owned: true}
}

// NewBorrowedStream wraps r and/or w without taking ownership: Close is a
// no-op. Use this when the caller already manages the lifetime of the
// underlying reader/writer (e.g. os.Stdin/os.Stdout, or a bytes.Buffer).
func NewBorrowedStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{r: r, w: w}
}

// Close closes the underlying resource if this Stream owns it.
func (s *Stream) Close() error {
	if s.owned && s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

const streamChunkSize = 4096

// Compress reads all of the Stream's reader, compresses it with cfg, and
// writes the result (header included) to the Stream's writer. The stream
// ends with a FLUSH marker when cfg.LiteralBits is 8 and without one
// otherwise.
func (s *Stream) Compress(cfg Config) (bytesIn, bytesOut uint64, err error) {
	windowStorage := make([]byte, cfg.WindowSize())
	c, err := NewCompressor(cfg, windowStorage)
	if err != nil {
		return 0, 0, err
	}

	in := make([]byte, streamChunkSize)
	out := make([]byte, streamChunkSize)

	for {
		nr, rerr := s.r.Read(in)
		if nr > 0 {
			pos := 0
			for pos < nr {
				written, consumed, cerr := c.Compress(out, in[pos:nr])
				if written > 0 {
					if _, werr := s.w.Write(out[:written]); werr != nil {
						return c.bytesIn, c.bytesOut, werr
					}
				}
				pos += consumed
				if cerr != nil && cerr != ErrOutputFull {
					return c.bytesIn, c.bytesOut, cerr
				}
				if consumed == 0 && cerr == nil {
					break
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return c.bytesIn, c.bytesOut, rerr
		}
	}

	for {
		n, ferr := c.Flush(out, cfg.LiteralBits == 8)
		if n > 0 {
			if _, werr := s.w.Write(out[:n]); werr != nil {
				return c.bytesIn, c.bytesOut, werr
			}
		}
		if ferr == nil {
			break
		}
		if ferr != ErrOutputFull {
			return c.bytesIn, c.bytesOut, ferr
		}
	}

	return c.bytesIn, c.bytesOut, nil
}

// Decompress reads a header-prefixed stream produced by Compress from the
// Stream's reader and writes the decompressed bytes to the Stream's
// writer. It keeps a single growing buffer of not-yet-decoded input,
// topping it up from the underlying reader whenever the decoder reports
// ErrInputExhausted, and slicing off the consumed prefix after every
// decode step.
func (s *Stream) Decompress() (bytesIn, bytesOut uint64, err error) {
	chunk := make([]byte, streamChunkSize)
	var buf []byte
	eof := false

	readMore := func() error {
		n, rerr := s.r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if rerr == io.EOF {
			eof = true
			return nil
		}
		return rerr
	}

	for len(buf) == 0 && !eof {
		if err := readMore(); err != nil {
			return 0, 0, err
		}
	}
	if len(buf) == 0 {
		return 0, 0, ErrInputExhausted
	}

	cfg, _, err := ReadHeader(buf)
	if err != nil {
		return 0, 0, err
	}
	windowStorage := make([]byte, cfg.WindowSize())
	d, err := NewDecompressor(cfg, windowStorage)
	if err != nil {
		return 0, 0, err
	}

	out := make([]byte, streamChunkSize)
	for {
		written, consumed, derr := d.Decompress(out, buf)
		if written > 0 {
			if _, werr := s.w.Write(out[:written]); werr != nil {
				return d.bytesIn, d.bytesOut, werr
			}
		}
		buf = buf[consumed:]

		switch derr {
		case nil, ErrOutputFull:
			continue
		case ErrInputExhausted:
			if eof {
				if len(buf) == 0 {
					return d.bytesIn, d.bytesOut, nil
				}
				return d.bytesIn, d.bytesOut, ErrInputExhausted
			}
			if err := readMore(); err != nil {
				return d.bytesIn, d.bytesOut, err
			}
		default:
			return d.bytesIn, d.bytesOut, derr
		}
	}
}
