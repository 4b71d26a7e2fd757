package input

import (
	"bufio"
	"io"
	"strings"
)

// maxLineBytes bounds a single configuration line.
const maxLineBytes = 64 * 1024

// Lines yields trimmed configuration lines from a reader, one at a time,
// skipping blank lines and "#" comments.
type Lines struct {
	sc     *bufio.Scanner
	line   string
	lineNo int
}

// NewLines creates a Lines reading from r.
func NewLines(r io.Reader) *Lines {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Lines{sc: sc}
}

// Next advances to the next configuration line. It returns false when the
// input is exhausted or a read error occurs; check Err afterwards.
func (l *Lines) Next() bool {
	for l.sc.Scan() {
		l.lineNo++
		line := strings.TrimSpace(l.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l.line = line
		return true
	}
	l.line = ""
	return false
}

// Line returns the current line.
func (l *Lines) Line() string { return l.line }

// LineNo returns the 1-based input line number of the current line.
func (l *Lines) LineNo() int { return l.lineNo }

// Err returns the first read error, if any.
func (l *Lines) Err() error { return l.sc.Err() }

// ReadAll collects the remaining lines.
func ReadAll(r io.Reader) ([]string, error) {
	l := NewLines(r)
	var lines []string
	for l.Next() {
		lines = append(lines, l.Line())
	}
	return lines, l.Err()
}

// Source is an iterator over configuration lines. *Lines implements it.
type Source interface {
	Next() bool
	Line() string
	LineNo() int
	Err() error
}

// Slice is a Source over lines already in memory, such as those rendered
// from job files.
type Slice struct {
	lines []string
	pos   int
}

// NewSlice creates a Slice over lines.
func NewSlice(lines []string) *Slice {
	return &Slice{lines: lines}
}

func (s *Slice) Next() bool {
	if s.pos >= len(s.lines) {
		return false
	}
	s.pos++
	return true
}

func (s *Slice) Line() string {
	if s.pos == 0 || s.pos > len(s.lines) {
		return ""
	}
	return s.lines[s.pos-1]
}

func (s *Slice) LineNo() int { return s.pos }

func (s *Slice) Err() error { return nil }
