package adapter

import (
	"io"
	"os"
)

// FileSystem defines an interface for file system operations to enable mocking
//
//go:generate mockgen -source=filesystem.go -destination=../mocks/filesystem.go -package=mocks -mock_names=FileSystem=MockFileSystem
type FileSystem interface {
	// MkdirAll creates a directory along with any necessary parents
	MkdirAll(path string, perm os.FileMode) error

	// WriteFile creates or truncates the named file and writes data to it
	WriteFile(name string, data []byte, perm os.FileMode) error

	// OpenAppend opens the named file for appending, creating it if necessary
	OpenAppend(name string, perm os.FileMode) (File, error)
}

// File defines an interface for file operations
type File interface {
	io.Writer
	io.Closer
}

// RealFileSystem implements FileSystem using the standard os package
type RealFileSystem struct{}

// NewFileSystem creates a new real file system
func NewFileSystem() FileSystem {
	return &RealFileSystem{}
}

// MkdirAll creates a directory along with any necessary parents
func (fs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFile creates or truncates the named file and writes data to it
func (fs *RealFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm) //nolint:gosec,G306
}

// OpenAppend opens the named file for appending, creating it if necessary
func (fs *RealFileSystem) OpenAppend(name string, perm os.FileMode) (File, error) {
	return os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, perm) //nolint:gosec,G304
}
