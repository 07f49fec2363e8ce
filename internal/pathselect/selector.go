package pathselect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExclusionPrefix marks a pattern line that removes matches instead of adding them.
const ExclusionPrefix = "!"

const (
	commentPrefixConstant           = "#"
	currentDirectoryPrefixConstant  = "./"
	currentDirectoryConstant        = "."
	parentDirectoryConstant         = ".."
	pathSeparatorConstant           = "/"
	gitMetadataNameConstant         = ".git"
	patternErrorTemplateConstant    = "pattern %q: %s"
	invalidPatternMessageConstant   = "invalid glob syntax"
	absolutePatternMessageConstant  = "pattern must be relative to the root directory"
	parentPatternMessageConstant    = "pattern must not leave the root directory"
	emptyExclusionMessageConstant   = "exclusion has no pattern"
	expansionErrorTemplateConstant  = "unable to expand pattern %q: %w"
	descendantErrorTemplateConstant = "unable to list directories under %s: %w"
)

// ErrFileSystemNotConfigured indicates the selector was built without a file system.
var ErrFileSystemNotConfigured = errors.New("path selector file system not configured")

// PatternError reports a pattern that cannot be evaluated.
type PatternError struct {
	Pattern string
	Message string
}

// Error describes the rejected pattern.
func (patternError PatternError) Error() string {
	return fmt.Sprintf(patternErrorTemplateConstant, patternError.Pattern, patternError.Message)
}

// PathSet is an ordered, duplicate-free list of directories relative to the selector
// root, using forward slashes and "." for the root itself.
type PathSet struct {
	paths []string
}

// Paths returns a copy of the selected directories in selection order.
func (pathSet PathSet) Paths() []string {
	return append([]string{}, pathSet.paths...)
}

// Len reports the number of selected directories.
func (pathSet PathSet) Len() int {
	return len(pathSet.paths)
}

// Options configures a Selector.
type Options struct {
	// ImplicitDescendants makes every matched directory also select all directories beneath it.
	ImplicitDescendants bool
}

// Selector evaluates patterns against a file system.
type Selector struct {
	fileSystem fs.FS
	options    Options
}

// NewSelector constructs a Selector rooted at rootDirectory on the local disk.
func NewSelector(rootDirectory string, options Options) *Selector {
	if len(strings.TrimSpace(rootDirectory)) == 0 {
		rootDirectory = currentDirectoryConstant
	}
	return &Selector{fileSystem: os.DirFS(rootDirectory), options: options}
}

// NewSelectorWithFileSystem constructs a Selector over an arbitrary file system.
func NewSelectorWithFileSystem(fileSystem fs.FS, options Options) (*Selector, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Selector{fileSystem: fileSystem, options: options}, nil
}

// ParsePatterns splits newline separated patterns, dropping blank lines and "#" comments.
func ParsePatterns(text string) []string {
	patterns := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentPrefixConstant) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	return patterns
}

// Select expands include patterns in order, unions the results keeping the first
// occurrence of each directory, then drops directories matched by any "!" pattern.
// Only directories are selected. A pattern that matches nothing is not an error.
func (selector *Selector) Select(patterns []string) (PathSet, error) {
	includePatterns, excludePatterns, classifyError := classifyPatterns(patterns)
	if classifyError != nil {
		return PathSet{}, classifyError
	}

	seenPaths := make(map[string]struct{})
	selectedPaths := make([]string, 0)
	appendPath := func(candidatePath string) {
		if _, seen := seenPaths[candidatePath]; seen {
			return
		}
		seenPaths[candidatePath] = struct{}{}
		selectedPaths = append(selectedPaths, candidatePath)
	}

	for _, includePattern := range includePatterns {
		matchedDirectories, expansionError := selector.expandPattern(includePattern)
		if expansionError != nil {
			return PathSet{}, expansionError
		}
		for _, matchedDirectory := range matchedDirectories {
			appendPath(matchedDirectory)
			if !selector.options.ImplicitDescendants {
				continue
			}
			descendants, descendantError := selector.listDescendants(matchedDirectory)
			if descendantError != nil {
				return PathSet{}, descendantError
			}
			for _, descendant := range descendants {
				appendPath(descendant)
			}
		}
	}

	if len(excludePatterns) == 0 {
		return PathSet{paths: selectedPaths}, nil
	}

	filteredPaths := make([]string, 0, len(selectedPaths))
	for _, selectedPath := range selectedPaths {
		if !selector.isExcluded(selectedPath, excludePatterns) {
			filteredPaths = append(filteredPaths, selectedPath)
		}
	}
	return PathSet{paths: filteredPaths}, nil
}

func (selector *Selector) expandPattern(pattern string) ([]string, error) {
	matchedDirectories := make([]string, 0)
	walkError := doublestar.GlobWalk(metadataHidingFileSystem{fileSystem: selector.fileSystem}, pattern, func(matchedPath string, directoryEntry fs.DirEntry) error {
		if directoryEntry != nil && directoryEntry.IsDir() && directoryEntry.Name() == gitMetadataNameConstant {
			return doublestar.SkipDir
		}
		if selector.isDirectory(matchedPath, directoryEntry) {
			matchedDirectories = append(matchedDirectories, matchedPath)
		}
		return nil
	}, doublestar.WithFailOnIOErrors())
	if walkError != nil {
		return nil, fmt.Errorf(expansionErrorTemplateConstant, pattern, walkError)
	}
	return matchedDirectories, nil
}

func (selector *Selector) isDirectory(candidatePath string, directoryEntry fs.DirEntry) bool {
	if directoryEntry != nil && directoryEntry.IsDir() {
		return true
	}
	if directoryEntry != nil && directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fileInfo, statError := fs.Stat(selector.fileSystem, candidatePath)
	return statError == nil && fileInfo.IsDir()
}

// listDescendants walks below directory in lexical order without entering .git metadata.
func (selector *Selector) listDescendants(directory string) ([]string, error) {
	descendants := make([]string, 0)
	walkError := fs.WalkDir(selector.fileSystem, directory, func(walkedPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if walkedPath == directory || !directoryEntry.IsDir() {
			return nil
		}
		if directoryEntry.Name() == gitMetadataNameConstant {
			return fs.SkipDir
		}
		descendants = append(descendants, walkedPath)
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(descendantErrorTemplateConstant, directory, walkError)
	}
	return descendants, nil
}

func (selector *Selector) isExcluded(candidatePath string, excludePatterns []string) bool {
	candidates := []string{candidatePath}
	if selector.options.ImplicitDescendants {
		for ancestor := path.Dir(candidatePath); ancestor != currentDirectoryConstant && ancestor != pathSeparatorConstant; ancestor = path.Dir(ancestor) {
			candidates = append(candidates, ancestor)
		}
	}

	for _, excludePattern := range excludePatterns {
		for _, candidate := range candidates {
			if doublestar.MatchUnvalidated(excludePattern, candidate) {
				return true
			}
		}
	}
	return false
}

func classifyPatterns(patterns []string) ([]string, []string, error) {
	includePatterns := make([]string, 0, len(patterns))
	excludePatterns := make([]string, 0)
	for _, rawPattern := range patterns {
		trimmedPattern := strings.TrimSpace(rawPattern)
		if len(trimmedPattern) == 0 || strings.HasPrefix(trimmedPattern, commentPrefixConstant) {
			continue
		}

		isExclusion := strings.HasPrefix(trimmedPattern, ExclusionPrefix)
		if isExclusion {
			trimmedPattern = strings.TrimSpace(strings.TrimPrefix(trimmedPattern, ExclusionPrefix))
			if len(trimmedPattern) == 0 {
				return nil, nil, PatternError{Pattern: rawPattern, Message: emptyExclusionMessageConstant}
			}
		}

		normalizedPattern, normalizeError := normalizePattern(trimmedPattern)
		if normalizeError != nil {
			return nil, nil, normalizeError
		}
		if isExclusion {
			excludePatterns = append(excludePatterns, normalizedPattern)
		} else {
			includePatterns = append(includePatterns, normalizedPattern)
		}
	}
	return includePatterns, excludePatterns, nil
}

func normalizePattern(pattern string) (string, error) {
	if strings.HasPrefix(pattern, pathSeparatorConstant) {
		return "", PatternError{Pattern: pattern, Message: absolutePatternMessageConstant}
	}
	for _, segment := range strings.Split(pattern, pathSeparatorConstant) {
		if segment == parentDirectoryConstant {
			return "", PatternError{Pattern: pattern, Message: parentPatternMessageConstant}
		}
	}

	normalizedPattern := pattern
	for strings.HasPrefix(normalizedPattern, currentDirectoryPrefixConstant) {
		normalizedPattern = strings.TrimPrefix(normalizedPattern, currentDirectoryPrefixConstant)
	}
	normalizedPattern = strings.TrimRight(normalizedPattern, pathSeparatorConstant)
	if len(normalizedPattern) == 0 {
		normalizedPattern = currentDirectoryConstant
	}

	if !doublestar.ValidatePattern(normalizedPattern) {
		return "", PatternError{Pattern: pattern, Message: invalidPatternMessageConstant}
	}
	return normalizedPattern, nil
}
