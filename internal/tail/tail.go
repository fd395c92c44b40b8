package tail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// seekChunk bounds how much of the file the backward line scan holds
	// in memory at a time.
	seekChunk = 2048
	// readChunk bounds a single forward read while streaming.
	readChunk = 64 * 1024
)

// DefaultInterval is the follow-mode poll interval used when Options does
// not specify one.
const DefaultInterval = time.Second

// Options configure how a file source starts and runs.
type Options struct {
	// Lines is the number of trailing lines to start with. Zero starts at
	// end of file.
	Lines int
	// Follow keeps the source open after reaching end of file, waiting for
	// appended data.
	Follow bool
	// Interval is the follow-mode poll interval; zero uses DefaultInterval.
	Interval time.Duration
}

// Source produces the lines of one input, either a seekable file or a live
// stream such as standard input. It is owned by a single reader; methods
// must not be called concurrently.
type Source struct {
	name     string
	file     *os.File  // nil for streams
	stream   io.Reader // nil for files
	offset   int64
	buf      []byte
	follow   bool
	interval time.Duration
	watcher  *fsnotify.Watcher // nil when change notification is unavailable

	reads      chan readResult // stream deliveries; created on first fill
	streamDone bool
}

// readResult carries one stream delivery: the bytes read and, on the final
// delivery, the error that ended the stream.
type readResult struct {
	data []byte
	err  error
}

// Open validates path and prepares a source positioned at the requested
// trailing line count. Access problems (missing path, directory,
// unreadable file) surface here, before any line is produced.
func Open(path string, opts Options) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	offset, err := seekTail(file, opts.Lines)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}

	s := &Source{
		name:     path,
		file:     file,
		offset:   offset,
		follow:   opts.Follow,
		interval: opts.Interval,
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.follow {
		// Best effort: a watcher lets the follow wait wake on a write
		// event instead of sleeping out the full interval. The interval
		// timer stays in place either way.
		if watcher, err := fsnotify.NewWatcher(); err == nil {
			if err := watcher.Add(path); err == nil {
				s.watcher = watcher
			} else {
				_ = watcher.Close()
			}
		}
	}
	return s, nil
}

// OpenStream wraps a non-seekable stream such as standard input. The
// initial tail seek is skipped; reads block until the stream delivers data
// or ends.
func OpenStream(name string, r io.Reader) *Source {
	return &Source{name: name, stream: r, follow: true}
}

// Name returns the display name of the source.
func (s *Source) Name() string {
	return s.name
}

// Next returns the next complete line with its trailing newline (and any
// carriage return) stripped. It blocks in follow mode until data arrives or
// ctx is cancelled, and returns io.EOF once the source is exhausted. When a
// non-follow source ends in an unterminated line, that remainder is
// returned as the final line.
func (s *Source) Next(ctx context.Context) (string, error) {
	for {
		if line, ok := s.takeLine(); ok {
			return line, nil
		}
		if s.stream != nil {
			if s.streamDone {
				return s.finalLine()
			}
			if err := s.fillFromStream(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					s.streamDone = true
					continue
				}
				return "", err
			}
			continue
		}

		avail, err := s.available()
		if err != nil {
			return "", err
		}
		if avail > 0 {
			if err := s.fillFromFile(avail); err != nil {
				return "", err
			}
			continue
		}
		if !s.follow {
			return s.finalLine()
		}
		if err := s.wait(ctx); err != nil {
			return "", err
		}
	}
}

// Close releases the underlying file handle and watcher.
func (s *Source) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

// takeLine splits one complete line off the front of the internal buffer.
func (s *Source) takeLine() (string, bool) {
	i := bytes.IndexByte(s.buf, '\n')
	if i < 0 {
		return "", false
	}
	line := s.buf[:i]
	s.buf = s.buf[i+1:]
	return string(trimCR(line)), true
}

// finalLine flushes a trailing unterminated line, then reports exhaustion.
func (s *Source) finalLine() (string, error) {
	if len(s.buf) == 0 {
		return "", io.EOF
	}
	line := string(trimCR(s.buf))
	s.buf = nil
	return line, nil
}

// available reports how many unread bytes the file currently holds. A file
// that shrank below the read position is treated as truncated: the source
// repositions to the new end, drops any pending partial line, and reports
// zero.
func (s *Source) available() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", s.name, err)
	}
	size := info.Size()
	if size < s.offset {
		if _, err := s.file.Seek(size, io.SeekStart); err != nil {
			return 0, fmt.Errorf("seek %s: %w", s.name, err)
		}
		s.offset = size
		s.buf = s.buf[:0]
		return 0, nil
	}
	return size - s.offset, nil
}

func (s *Source) fillFromFile(avail int64) error {
	n := avail
	if n > readChunk {
		n = readChunk
	}
	chunk := make([]byte, n)
	read, err := s.file.Read(chunk)
	if read > 0 {
		s.buf = append(s.buf, chunk[:read]...)
		s.offset += int64(read)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read %s: %w", s.name, err)
	}
	return nil
}

// fillFromStream appends the next stream delivery to the buffer, or gives
// up as soon as ctx is cancelled. The blocking Read lives in a pump
// goroutine so cancellation never waits on an idle stream.
func (s *Source) fillFromStream(ctx context.Context) error {
	if s.reads == nil {
		s.reads = make(chan readResult, 1)
		go pumpStream(s.name, s.stream, s.reads)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-s.reads:
		s.buf = append(s.buf, res.data...)
		return res.err
	}
}

// pumpStream reads the stream until it ends, forwarding each chunk. A
// cancelled consumer simply stops receiving; the buffered channel lets the
// final send complete, and a pump still parked in Read is torn down with
// the process.
func pumpStream(name string, r io.Reader, out chan<- readResult) {
	for {
		chunk := make([]byte, 4096)
		n, err := r.Read(chunk)
		res := readResult{data: chunk[:n]}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			res.err = io.EOF
		default:
			res.err = fmt.Errorf("read %s: %w", name, err)
		}
		out <- res
		if res.err != nil {
			return
		}
	}
}

// wait suspends a file source until the poll interval elapses, the
// watcher reports activity, or ctx is cancelled.
func (s *Source) wait(ctx context.Context) error {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if s.watcher != nil {
		events = s.watcher.Events
		watchErrs = s.watcher.Errors
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	case <-events:
	case <-watchErrs:
		// Watcher trouble is not fatal; the next wait falls back to the
		// interval timer.
	}
	return nil
}

func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}

// seekTail positions f so that at most lines newline-terminated lines
// remain before end of file, returning the chosen offset. It scans
// fixed-size chunks backward from the end, counting newline bytes right to
// left; the position lands immediately after the newline that tips the
// running count past lines. Files shorter than the requested count rewind
// to the start. A zero count seeks straight to end of file.
func seekTail(f *os.File, lines int) (int64, error) {
	if lines <= 0 {
		return f.Seek(0, io.SeekEnd)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	chunk := make([]byte, seekChunk)
	count := 0
	pos := info.Size()
	for pos > 0 {
		n := int64(seekChunk)
		if pos < n {
			n = pos
		}
		pos -= n
		if _, err := f.ReadAt(chunk[:n], pos); err != nil {
			return 0, err
		}
		for i := n - 1; i >= 0; i-- {
			if chunk[i] != '\n' {
				continue
			}
			count++
			if count > lines {
				offset := pos + i + 1
				_, err := f.Seek(offset, io.SeekStart)
				return offset, err
			}
		}
	}
	_, err = f.Seek(0, io.SeekStart)
	return 0, err
}
