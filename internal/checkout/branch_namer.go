package checkout

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// DefaultBranchPrefix is used when no prefix is configured.
	DefaultBranchPrefix = "recheckout"

	branchNameTemplateConstant         = "%s/%d-%d"
	branchPrefixSeparatorConstant      = "/"
	invalidPrefixErrorTemplateConstant = "branch prefix %q contains %q: %w"
	forbiddenPrefixSequencesConstant   = " ~^:?*[\\"
	doubleDotSequenceConstant          = ".."
	lockSuffixConstant                 = ".lock"
)

// ErrInvalidBranchPrefix indicates a branch prefix git would refuse as part of a ref name.
var ErrInvalidBranchPrefix = errors.New("invalid branch prefix")

var branchSequence atomic.Uint64

// BranchNamer produces local branch names that never repeat within a process.
type BranchNamer struct {
	prefix string
	clock  func() time.Time
}

// NewBranchNamer validates prefix and constructs a BranchNamer. An empty prefix selects DefaultBranchPrefix.
func NewBranchNamer(prefix string) (*BranchNamer, error) {
	return newBranchNamerWithClock(prefix, time.Now)
}

func newBranchNamerWithClock(prefix string, clock func() time.Time) (*BranchNamer, error) {
	normalizedPrefix, validationError := NormalizeBranchPrefix(prefix)
	if validationError != nil {
		return nil, validationError
	}
	if clock == nil {
		clock = time.Now
	}
	return &BranchNamer{prefix: normalizedPrefix, clock: clock}, nil
}

// Prefix reports the normalized prefix.
func (namer *BranchNamer) Prefix() string {
	return namer.prefix
}

// Next returns "<prefix>/<unix-nanos>-<sequence>".
func (namer *BranchNamer) Next() string {
	return fmt.Sprintf(branchNameTemplateConstant, namer.prefix, namer.clock().UnixNano(), branchSequence.Add(1))
}

// NormalizeBranchPrefix trims surrounding whitespace and slashes and rejects characters
// that cannot appear in a git ref name.
func NormalizeBranchPrefix(prefix string) (string, error) {
	normalizedPrefix := strings.Trim(strings.TrimSpace(prefix), branchPrefixSeparatorConstant)
	if len(normalizedPrefix) == 0 {
		return DefaultBranchPrefix, nil
	}
	for _, forbidden := range forbiddenPrefixSequencesConstant {
		if strings.ContainsRune(normalizedPrefix, forbidden) {
			return "", fmt.Errorf(invalidPrefixErrorTemplateConstant, prefix, string(forbidden), ErrInvalidBranchPrefix)
		}
	}
	if strings.Contains(normalizedPrefix, doubleDotSequenceConstant) {
		return "", fmt.Errorf(invalidPrefixErrorTemplateConstant, prefix, doubleDotSequenceConstant, ErrInvalidBranchPrefix)
	}
	for _, segment := range strings.Split(normalizedPrefix, branchPrefixSeparatorConstant) {
		if len(segment) == 0 || strings.HasPrefix(segment, ".") || strings.HasSuffix(segment, lockSuffixConstant) {
			return "", fmt.Errorf(invalidPrefixErrorTemplateConstant, prefix, segment, ErrInvalidBranchPrefix)
		}
	}
	return normalizedPrefix, nil
}
