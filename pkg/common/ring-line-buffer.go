package common

import (
	"bytes"
	"io"
	"sync"
)

// NewRingLineBuffer creates a buffer that keeps the last maxLines lines
// written to it. Lines longer than maxLineLength are cut.
func NewRingLineBuffer(maxLines, maxLineLength int) *RingLineBuffer {
	if maxLines < 1 {
		maxLines = 1
	}
	if maxLineLength < 1 {
		maxLineLength = 1
	}
	return &RingLineBuffer{
		lines:         make([][]byte, maxLines),
		maxLineLength: maxLineLength,
	}
}

type RingLineBuffer struct {
	lines         [][]byte
	next          int
	length        int
	maxLineLength int

	current    []byte
	discarding bool

	mutex sync.RWMutex
}

func (this *RingLineBuffer) Write(p []byte) (int, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		chunk := p
		if i >= 0 {
			chunk = p[:i]
		}

		if !this.discarding {
			room := this.maxLineLength - len(this.current)
			if len(chunk) > room {
				chunk = chunk[:room]
				this.discarding = true
			}
			this.current = append(this.current, chunk...)
		}

		if i < 0 {
			break
		}
		this.add(this.current)
		this.current = nil
		this.discarding = false
		p = p[i+1:]
	}
	return n, nil
}

// AddLine adds a complete line, cut to the maximum line length.
func (this *RingLineBuffer) AddLine(line []byte) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if len(line) > this.maxLineLength {
		line = line[:this.maxLineLength]
	}
	this.add(bytes.Clone(line))
}

func (this *RingLineBuffer) add(line []byte) {
	if line == nil {
		line = []byte{}
	}
	this.lines[this.next] = line
	this.next = (this.next + 1) % len(this.lines)
	if this.length < len(this.lines) {
		this.length++
	}
}

// Lines returns the buffered lines, oldest first.
func (this *RingLineBuffer) Lines() [][]byte {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	result := make([][]byte, 0, this.length)
	start := this.next - this.length
	if start < 0 {
		start += len(this.lines)
	}
	for i := 0; i < this.length; i++ {
		result = append(result, this.lines[(start+i)%len(this.lines)])
	}
	return result
}

func (this *RingLineBuffer) NumberOfLines() int {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	return this.length
}

func (this *RingLineBuffer) WriteTo(to io.Writer) (n int64, err error) {
	for _, line := range this.Lines() {
		wn, wErr := to.Write(append(bytes.Clone(line), '\n'))
		n += int64(wn)
		if wErr != nil {
			return n, wErr
		}
	}
	return n, nil
}
