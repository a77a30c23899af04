package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxSourceSize bounds how much of a file ReadFileScoped will load. The
// callers read source files to quote single lines from them; anything
// this large is not a source file worth quoting.
const maxSourceSize = 8 << 20

// ReadFileScoped reads a file by opening a root at the file's directory.
// This scopes access to the intended directory and avoids path traversal.
func ReadFileScoped(path string) ([]byte, error) {
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file path: %q", path)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	file, err := root.Open(base)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSourceSize {
		return nil, fmt.Errorf("file too large to quote: %q (%d bytes)", path, info.Size())
	}

	return io.ReadAll(file)
}

// Line returns the n'th line of data, 1-based, without its line ending.
// The second result is false when data has no such line.
func Line(data []byte, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	for i := 1; ; i++ {
		j := bytes.IndexByte(data, '\n')
		line := data
		if j >= 0 {
			line = data[:j]
		}
		if i == n {
			return string(bytes.TrimSuffix(line, []byte{'\r'})), true
		}
		if j < 0 {
			return "", false
		}
		data = data[j+1:]
	}
}
