// Package tail reads the trailing lines of files and streams and follows
// their growth.
//
// # Overview
//
// A Source owns one input. For real files it first locates the byte offset
// where the last N lines begin, then streams complete lines from there; in
// follow mode it keeps watching for appended data instead of stopping at
// end of file. Standard input is wrapped as a stream source that skips the
// seek and simply blocks on reads.
//
// # Backward Seek
//
// The "last N lines" offset is found without reading the whole file: the
// seek scans 2048-byte chunks backward from end of file, counting newline
// bytes right to left. When the count passes N the offset is immediately
// after the newline that tipped it, so exactly the trailing N
// newline-terminated lines remain. A file with fewer newlines rewinds to
// offset zero. Memory use is one chunk regardless of file size.
//
// # Streaming and Follow
//
// Next maintains a byte buffer of not-yet-delivered data. A complete line
// is split off when a newline is buffered; otherwise the source compares
// the file's current size against its read position to decide how many new
// bytes may be read. A size below the read position means the file was
// truncated: the source repositions to the new end and discards any
// pending partial line rather than emitting bytes from two generations of
// the file.
//
// With follow enabled, an exhausted source waits for growth. The wait is a
// poll sleep (default one second) shortened by an fsnotify watcher when
// one could be attached: a write event wakes the source early, the timer
// guarantees progress when events are lost or unavailable. Correctness
// never depends on the watcher — every wakeup re-checks the size — so
// platforms without usable change notification degrade to plain polling.
// The wait honors context cancellation.
//
// Stream sources block differently: their reads run in a pump goroutine
// and Next waits on its deliveries, so cancelling the context unblocks
// Next even while the pump is still parked inside an idle Read.
//
// Without follow, exhaustion delivers a trailing unterminated line (if
// any) and then io.EOF.
//
// # Ownership
//
// A Source is not safe for concurrent use; exactly one goroutine reads it.
// All access problems — missing file, directory path, permission — are
// reported by Open, never mid-stream.
package tail
