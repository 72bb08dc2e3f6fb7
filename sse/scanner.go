package sse

import (
	"bufio"
	"bytes"
	"io"
)

const (
	// initialBuffer is the scanner's starting buffer size.
	initialBuffer = 64 * 1024
	// maxLine caps a single logical line at 1 MB.
	maxLine = 1 << 20
)

// Scanner splits a byte stream into logical text lines with terminators
// stripped. LF (0x0A) and CR (0x0D) each end a line independently; a CR
// immediately followed by LF therefore yields an empty line between them.
// Chunk boundaries are arbitrary: a line, or even a multi-byte UTF-8
// sequence, may span reads. Because both terminators are single ASCII bytes
// that cannot occur inside a multi-byte sequence, buffering at the byte
// level reassembles split code points before a line is materialized.
//
// Decoding is best-effort pass-through: line bytes are surfaced as Go
// strings unmodified, so malformed sequences are preserved verbatim rather
// than replaced. A trailing partial line at end of stream is discarded.
type Scanner struct {
	s *bufio.Scanner
}

// NewScanner wraps r in a line scanner for SSE streams.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, initialBuffer), maxLine)
	s.Split(ScanLines)
	return &Scanner{s: s}
}

// Scan advances to the next line. It returns false at end of stream or on a
// read error; consult Err afterwards.
func (s *Scanner) Scan() bool { return s.s.Scan() }

// Text returns the current line without its terminator.
func (s *Scanner) Text() string { return s.s.Text() }

// Err returns the first non-EOF error encountered by the scanner.
func (s *Scanner) Err() error { return s.s.Err() }

// ScanLines is the bufio.SplitFunc used by Scanner. Exported so callers can
// attach it to their own bufio.Scanner.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		// Unterminated trailing bytes: consume without yielding a line.
		return len(data), nil, nil
	}
	return 0, nil, nil
}
