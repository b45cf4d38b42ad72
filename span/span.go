// Package span locates syntax in source text.
//
// A Span is a (file, byte-range) pair. Registry is the append-only,
// read-many map from file id to the file's display name and content
// that a diagnostic renderer needs to turn a Span back into a
// human-readable snippet.
package span

import (
	"fmt"
	"strings"
	"sync"
)

// FileID identifies a registered source file. The zero value is never
// assigned by Registry.AddFile, so it's safe to use as an "unset" marker.
type FileID uint32

// Span is a byte range [Lo, Hi) within file File. Lo <= Hi always.
type Span struct {
	File   FileID
	Lo, Hi uint32
}

// Zero reports whether s is the unset span (both bounds and file zero).
func (s Span) Zero() bool {
	return s == Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:[%d,%d)", s.File, s.Lo, s.Hi)
}

// Join returns the smallest span covering both s and o. Both must
// refer to the same file.
func Join(s, o Span) Span {
	if s.Zero() {
		return o
	}
	if o.Zero() {
		return s
	}
	lo, hi := s.Lo, s.Hi
	if o.Lo < lo {
		lo = o.Lo
	}
	if o.Hi > hi {
		hi = o.Hi
	}
	return Span{File: s.File, Lo: lo, Hi: hi}
}

type fileEntry struct {
	name    string
	content string
}

// Registry is an append-only file-id -> (name, content) map, safe for
// concurrent reads once the writes that produced the entries being
// read have completed (entries are only ever appended, never mutated
// or removed, so a read of index i is safe the moment AddFile returns
// a FileID >= i).
type Registry struct {
	mu    sync.Mutex
	files []fileEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddFile registers a new source file and returns its FileID.
func (r *Registry) AddFile(name, content string) FileID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, fileEntry{name: name, content: content})
	return FileID(len(r.files))
}

// Resolve returns the registered name and content for id, or
// ok == false if id was never registered.
func (r *Registry) Resolve(id FileID) (name, content string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == 0 || int(id) > len(r.files) {
		return "", "", false
	}
	e := r.files[id-1]
	return e.name, e.content, true
}

// LineCol converts a byte offset into the file's content into a
// 1-based (line, column) pair, for diagnostic rendering. Columns are
// counted in bytes, not runes or grapheme clusters — good enough for
// the ASCII-identifier grammar this front-end accepts.
func (r *Registry) LineCol(id FileID, offset uint32) (line, col int, ok bool) {
	_, content, present := r.Resolve(id)
	if !present || int(offset) > len(content) {
		return 0, 0, false
	}
	prefix := content[:offset]
	line = strings.Count(prefix, "\n") + 1
	if nl := strings.LastIndexByte(prefix, '\n'); nl >= 0 {
		col = len(prefix) - nl
	} else {
		col = len(prefix) + 1
	}
	return line, col, true
}

// Text returns the substring of the file's content covered by s.
func (r *Registry) Text(s Span) (string, bool) {
	_, content, ok := r.Resolve(s.File)
	if !ok || int(s.Hi) > len(content) {
		return "", false
	}
	return content[s.Lo:s.Hi], true
}
