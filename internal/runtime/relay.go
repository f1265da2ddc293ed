// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
)

const relayChunkSize = 4096

// errRelayDone is returned by LineFeed.Next when the consuming run has ended.
var errRelayDone = errors.New("relay done")

type (
	// StreamRelay copies a child's output pipe to a live mirror while
	// recording everything into a Transcript.
	StreamRelay struct {
		Source     io.Reader
		Transcript *Transcript
		Mirror     io.Writer
	}

	// InputRelay forwards terminal lines to a child's stdin and echoes each
	// forwarded line into the child's stdout transcript.
	InputRelay struct {
		Feed       *LineFeed
		Sink       io.WriteCloser
		Transcript *Transcript
		// Done is closed when the child exits. Lines that arrive afterwards
		// stay in the feed for the next run.
		Done <-chan struct{}
	}

	// LineFeed reads lines from a shared terminal source on one long-lived
	// goroutine and hands them out to whichever InputRelay is active. A line
	// typed after one child exits is delivered to the next child instead of
	// being swallowed by a relay that has already ended.
	LineFeed struct {
		src     io.Reader
		start   sync.Once
		lines   chan string
		mu      sync.Mutex
		pending []string
	}

	flusher interface {
		Flush() error
	}

	syncer interface {
		Sync() error
	}
)

// Run relays until the source reaches EOF or fails. Closed-pipe errors are
// normal termination and return nil. Mirror write failures do not stop the
// relay; the transcript stays complete.
func (r *StreamRelay) Run() error {
	var mirrorErr error
	buf := make([]byte, relayChunkSize)
	for {
		n, err := r.Source.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			_, _ = r.Transcript.Write(chunk)
			if r.Mirror != nil && mirrorErr == nil {
				if _, werr := r.Mirror.Write(chunk); werr != nil {
					mirrorErr = werr
				} else {
					flushMirror(r.Mirror)
				}
			}
		}
		if err != nil {
			if isClosedPipe(err) {
				return nil
			}
			return err
		}
	}
}

// flushMirror pushes buffered mirror output to the terminal.
func flushMirror(w io.Writer) {
	switch m := w.(type) {
	case flusher:
		_ = m.Flush()
	case syncer:
		_ = m.Sync()
	}
}

// Run forwards lines until the feed is exhausted, the child exits, or the
// write to the child fails. On feed exhaustion the child's stdin is closed so
// it observes end of input. Each line is recorded before it is written so the
// echo precedes any output the child produces in response; a line the child
// never received is taken back out of the transcript.
func (r *InputRelay) Run() {
	for {
		line, err := r.Feed.Next(r.Done)
		if errors.Is(err, io.EOF) {
			_ = r.Sink.Close()
			return
		}
		if err != nil {
			return
		}

		off := r.Transcript.appendAt(line)
		if _, err := io.WriteString(r.Sink, line); err != nil {
			r.Transcript.cut(off, len(line))
			r.Feed.Unread(line)
			return
		}
	}
}

// NewLineFeed returns a LineFeed over src. Reading starts on the first Next call.
func NewLineFeed(src io.Reader) *LineFeed {
	return &LineFeed{src: src, lines: make(chan string)}
}

// Next returns the next line, including its trailing newline when present.
// It returns io.EOF once the source is exhausted, or errRelayDone when done
// is closed first. Done takes priority over a ready line.
func (f *LineFeed) Next(done <-chan struct{}) (string, error) {
	f.start.Do(func() { go f.read() })

	select {
	case <-done:
		return "", errRelayDone
	default:
	}

	if line, ok := f.popPending(); ok {
		return line, nil
	}

	select {
	case <-done:
		return "", errRelayDone
	case line, ok := <-f.lines:
		if !ok {
			return "", io.EOF
		}
		select {
		case <-done:
			f.Unread(line)
			return "", errRelayDone
		default:
		}
		return line, nil
	}
}

// Unread puts a line back so the next Next call returns it.
func (f *LineFeed) Unread(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append([]string{line}, f.pending...)
}

func (f *LineFeed) popPending() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return "", false
	}
	line := f.pending[0]
	f.pending = f.pending[1:]
	return line, true
}

func (f *LineFeed) read() {
	defer close(f.lines)
	br := bufio.NewReader(f.src)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			f.lines <- line
		}
		if err != nil {
			return
		}
	}
}

// isClosedPipe reports whether err is the normal end of a pipe read.
func isClosedPipe(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
