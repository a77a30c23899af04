// Package report renders tracked handle records as human-readable text.
//
// The output is meant for a person staring at a process that will not
// exit: one summary line, then one block per handle showing where it was
// created, with a best-effort source excerpt next to each frame.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrcribb/whyrunning/internal/fsutil"
	"github.com/jrcribb/whyrunning/internal/stack"
	"github.com/jrcribb/whyrunning/internal/track"
)

// Sink receives rendered report lines, one call per line. It matches the
// error-level print surface of common loggers so callers can hand one
// over directly.
type Sink interface {
	Error(msg string)
}

// Renderer formats handle records. The zero value renders with absolute
// paths; New returns one that shortens paths under the current working
// directory.
type Renderer struct {
	// WorkDir, when non-empty, is the directory file paths are shown
	// relative to when they lie underneath it.
	WorkDir string
}

// New returns a Renderer relativizing paths against the current working
// directory. If the working directory cannot be determined, paths are
// shown as recorded.
func New() *Renderer {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return &Renderer{WorkDir: wd}
}

// Render writes the report for records to sink: a summary count followed
// by one block per record, in the order given. Records are rendered as
// handed over; filtering is the caller's concern.
func (r *Renderer) Render(records []track.Record, sink Sink) {
	sink.Error(fmt.Sprintf("There are %d handle(s) keeping the process running.", len(records)))

	// Source files are cached for the duration of one report; several
	// frames commonly point into the same file.
	sources := make(map[string]sourceFile)

	for _, rec := range records {
		sink.Error("")
		sink.Error("# " + rec.Type)
		r.renderStack(rec.Stack, sink, sources)
	}
}

type sourceFile struct {
	data []byte
	err  error
}

type frameView struct {
	loc  string // display location, "path:line"
	file string // normalized path used for reading
	line int
}

func (r *Renderer) renderStack(frames []stack.Frame, sink Sink, sources map[string]sourceFile) {
	views := r.viewsOf(frames)
	if len(views) == 0 {
		sink.Error("(unknown stack trace)")
		return
	}

	width := 0
	for _, v := range views {
		if len(v.loc) > width {
			width = len(v.loc)
		}
	}

	for _, v := range views {
		text, ok := excerpt(v, sources)
		if !ok {
			sink.Error(v.loc)
			continue
		}
		sink.Error(v.loc + strings.Repeat(" ", width-len(v.loc)) + " - " + text)
	}
}

// viewsOf drops frames that would not help a reader and formats the rest.
// Dropped: frames with no recorded file, scheme-style pseudo paths
// (anything without a path separator), paths under an "internal" tree,
// and runtime machinery frames.
func (r *Renderer) viewsOf(frames []stack.Frame) []frameView {
	out := make([]frameView, 0, len(frames))
	for _, fr := range frames {
		if fr.File == "" {
			continue
		}
		file := normalizePath(fr.File)
		if !strings.ContainsRune(file, '/') && !strings.ContainsRune(file, filepath.Separator) {
			continue
		}
		if strings.HasPrefix(file, "internal") {
			continue
		}
		if strings.HasPrefix(fr.Function, "runtime.") {
			continue
		}
		out = append(out, frameView{
			loc:  fmt.Sprintf("%s:%d", r.displayPath(file), fr.Line),
			file: file,
			line: fr.Line,
		})
	}
	return out
}

func (r *Renderer) displayPath(file string) string {
	if r.WorkDir == "" {
		return file
	}
	rel, err := filepath.Rel(r.WorkDir, file)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return file
	}
	return rel
}

// excerpt returns the trimmed source line a frame points at. Any failure
// to read or locate the line reports ok == false; the report then shows
// the bare location.
func excerpt(v frameView, sources map[string]sourceFile) (string, bool) {
	src, ok := sources[v.file]
	if !ok {
		data, err := fsutil.ReadFileScoped(v.file)
		src = sourceFile{data: data, err: err}
		sources[v.file] = src
	}
	if src.err != nil {
		return "", false
	}
	text, ok := fsutil.Line(src.data, v.line)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// normalizePath strips a URI-style file scheme so the path can be handed
// to the filesystem directly.
func normalizePath(file string) string {
	return strings.TrimPrefix(file, "file://")
}
