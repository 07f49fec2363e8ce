package pathselect

import (
	"io/fs"
	"strings"
)

// metadataHidingFileSystem presents a file system in which .git entries do not exist,
// so pattern expansion never opens or lists repository metadata.
type metadataHidingFileSystem struct {
	fileSystem fs.FS
}

func (filter metadataHidingFileSystem) Open(name string) (fs.File, error) {
	if isInsideGitMetadata(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return filter.fileSystem.Open(name)
}

func (filter metadataHidingFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	if isInsideGitMetadata(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	entries, readError := fs.ReadDir(filter.fileSystem, name)
	if readError != nil {
		return nil, readError
	}
	visibleEntries := make([]fs.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == gitMetadataNameConstant {
			continue
		}
		visibleEntries = append(visibleEntries, entry)
	}
	return visibleEntries, nil
}

func (filter metadataHidingFileSystem) Stat(name string) (fs.FileInfo, error) {
	if isInsideGitMetadata(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return fs.Stat(filter.fileSystem, name)
}

func isInsideGitMetadata(candidatePath string) bool {
	for _, segment := range strings.Split(candidatePath, pathSeparatorConstant) {
		if segment == gitMetadataNameConstant {
			return true
		}
	}
	return false
}
