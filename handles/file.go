package handles

import "os"

// File is a tracked *os.File.
type File struct {
	*os.File
	*life
}

// Open opens name for reading like os.Open and tracks the handle until
// Close.
func Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	h := &File{File: f, life: &life{}}
	register(TypeFile, h, h.life)
	return h, nil
}

// Create creates or truncates name like os.Create and tracks the handle
// until Close.
func Create(name string) (*File, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	h := &File{File: f, life: &life{}}
	register(TypeFile, h, h.life)
	return h, nil
}

// OpenFile is the generalized open call, as os.OpenFile, with tracking
// until Close.
func OpenFile(name string, flag int, perm os.FileMode) (*File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	h := &File{File: f, life: &life{}}
	register(TypeFile, h, h.life)
	return h, nil
}

// Close closes the file and ends tracking.
func (f *File) Close() error {
	err := f.File.Close()
	deregister(f.life)
	return err
}
