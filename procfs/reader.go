// Copyright (c) 2014 Square, Inc

package procfs

import (
	"fmt"
	"io"
	"os"

	"github.com/square/spv/core/process"
)

// parseFunc adapts a plain parsing function to the shape SystemDataReader and
// ProcessDataReader need.
type parseFunc[T any] func(tp *TokenParser) (T, error)

func readFile[T any](f *os.File, parse parseFunc[T]) (T, error) {
	var zero T

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return zero, newError(IO, "failed to seek procfs file", err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return zero, newError(IO, "failed to read procfs file", err)
	}

	return parse(NewTokenParser(string(content)))
}

// SystemDataReader reads one record type from a single system-wide procfs
// file (e.g. /proc/stat), keeping the file handle open across calls.
type SystemDataReader[T any] struct {
	file  *os.File
	parse parseFunc[T]
}

// NewSystemDataReader opens path and returns a reader that parses its
// content with parse on every Read call.
func NewSystemDataReader[T any](path string, parse parseFunc[T]) (*SystemDataReader[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(IO, fmt.Sprintf("failed to open %s", path), err)
	}
	return &SystemDataReader[T]{file: f, parse: parse}, nil
}

// Read re-reads and parses the underlying file from its start.
func (r *SystemDataReader[T]) Read() (T, error) {
	return readFile(r.file, r.parse)
}

// Close releases the underlying file handle.
func (r *SystemDataReader[T]) Close() error {
	return r.file.Close()
}

// ProcessDataReader reads one record type from a per-Pid procfs file (e.g.
// /proc/[pid]/stat), keeping one file handle open per Pid by default.
type ProcessDataReader[T any] struct {
	pathFor        func(pid process.Pid) string
	parse          parseFunc[T]
	keepFilesOpen  bool
	files          map[process.Pid]*os.File
}

// NewProcessDataReader returns a reader for the per-Pid file produced by
// pathFor, parsing its content with parse.
func NewProcessDataReader[T any](pathFor func(pid process.Pid) string, parse parseFunc[T]) *ProcessDataReader[T] {
	return &ProcessDataReader[T]{
		pathFor:       pathFor,
		parse:         parse,
		keepFilesOpen: true,
		files:         make(map[process.Pid]*os.File),
	}
}

// CloseFileAfterRead switches the reader into a mode that closes each Pid's
// file handle immediately after every Read, trading open-FD pressure for
// extra open(2) syscalls. Intended for fleets where the process count
// approaches the open-file limit.
func (r *ProcessDataReader[T]) CloseFileAfterRead() {
	r.keepFilesOpen = false
}

// Read returns the parsed record for pid, opening (or reusing) its file
// handle as needed.
func (r *ProcessDataReader[T]) Read(pid process.Pid) (T, error) {
	var zero T

	f, err := r.fileFor(pid)
	if err != nil {
		return zero, err
	}

	record, err := readFile(f, r.parse)
	if err != nil || !r.keepFilesOpen {
		r.Cleanup(pid)
	}
	return record, err
}

func (r *ProcessDataReader[T]) fileFor(pid process.Pid) (*os.File, error) {
	if f, ok := r.files[pid]; ok {
		return f, nil
	}

	path := r.pathFor(pid)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, newError(UnknownPid, fmt.Sprintf("%s does not exist", path), err)
	}
	if err != nil {
		return nil, newError(IO, fmt.Sprintf("failed to open %s", path), err)
	}
	r.files[pid] = f
	return f, nil
}

// Cleanup closes and forgets pid's cached file handle, if any. Called when a
// Read fails and whenever a process is marked dead, so fleets of short-lived
// processes do not leak file descriptors.
func (r *ProcessDataReader[T]) Cleanup(pid process.Pid) {
	if f, ok := r.files[pid]; ok {
		f.Close()
		delete(r.files, pid)
	}
}

// OpenFileCount returns the number of per-Pid file handles currently held
// open.
func (r *ProcessDataReader[T]) OpenFileCount() int {
	return len(r.files)
}
