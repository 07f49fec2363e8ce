package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	schemeSeparatorConstant             = "://"
	scpUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	identityTemplateConstant            = "%s/%s"
	remoteURLParseErrorTemplateConstant = "%q: %s"
	requiredValueMessageConstant        = "value required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	missingOwnerMessageConstant         = "remote url does not name an owner and repository"
	unsupportedSchemeMessageConstant    = "unsupported remote url scheme"
)

// RemoteProtocol enumerates the transports a remote URL can use.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = "ssh"
	RemoteProtocolHTTPS RemoteProtocol = "https"
	RemoteProtocolHTTP  RemoteProtocol = "http"
	RemoteProtocolGit   RemoteProtocol = "git"
	RemoteProtocolFile  RemoteProtocol = "file"
	RemoteProtocolShort RemoteProtocol = "short"
)

var schemeProtocols = map[string]RemoteProtocol{
	"ssh":     RemoteProtocolSSH,
	"git+ssh": RemoteProtocolSSH,
	"ssh+git": RemoteProtocolSSH,
	"https":   RemoteProtocolHTTPS,
	"http":    RemoteProtocolHTTP,
	"git":     RemoteProtocolGit,
	"file":    RemoteProtocolFile,
}

// RemoteURL is a remote URL split into the parts that identify a repository.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// Identity renders the owner/name join key used to match ref maps.
func (remote RemoteURL) Identity() string {
	return fmt.Sprintf(identityTemplateConstant, remote.Owner, remote.Repository)
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL accepts scheme URLs (ssh, https, http, git, file), scp-like
// "[user@]host:owner/name" remotes, absolute local paths, and the short
// "owner/name" form. A trailing ".git" and slashes are ignored. For hosted
// remotes with nested groups the owner holds every segment but the last; for
// local paths only the last two segments are used.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimRight(strings.TrimSpace(remote), pathSeparatorConstant)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.Contains(trimmedRemote, schemeSeparatorConstant):
		return parseSchemeRemote(remote, trimmedRemote)
	case strings.HasPrefix(trimmedRemote, pathSeparatorConstant):
		return buildRemoteURL(remote, RemoteProtocolFile, "", trimmedRemote)
	case isSCPLikeRemote(trimmedRemote):
		return parseSCPLikeRemote(remote, trimmedRemote)
	default:
		return parseShortRemote(remote, trimmedRemote)
	}
}

func parseSchemeRemote(originalRemote string, trimmedRemote string) (RemoteURL, error) {
	parsedURL, parseError := url.Parse(trimmedRemote)
	if parseError != nil {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: invalidRemoteURLMessageConstant}
	}

	protocol, supported := schemeProtocols[strings.ToLower(parsedURL.Scheme)]
	if !supported {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: unsupportedSchemeMessageConstant}
	}
	if protocol != RemoteProtocolFile && len(parsedURL.Hostname()) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemoteURL(originalRemote, protocol, parsedURL.Hostname(), parsedURL.Path)
}

// isSCPLikeRemote mirrors git's rule: a colon that appears before any slash.
func isSCPLikeRemote(remote string) bool {
	colonIndex := strings.Index(remote, scpPathDelimiterConstant)
	if colonIndex <= 0 {
		return false
	}
	slashIndex := strings.Index(remote, pathSeparatorConstant)
	return slashIndex == -1 || colonIndex < slashIndex
}

func parseSCPLikeRemote(originalRemote string, trimmedRemote string) (RemoteURL, error) {
	hostPart, pathPart, _ := strings.Cut(trimmedRemote, scpPathDelimiterConstant)
	if userSplitIndex := strings.LastIndex(hostPart, scpUserDelimiterConstant); userSplitIndex >= 0 {
		hostPart = hostPart[userSplitIndex+1:]
	}
	if len(hostPart) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemoteURL(originalRemote, RemoteProtocolSSH, hostPart, pathPart)
}

func parseShortRemote(originalRemote string, trimmedRemote string) (RemoteURL, error) {
	segments := strings.Split(trimmedRemote, pathSeparatorConstant)
	if len(segments) != 2 {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemoteURL(originalRemote, RemoteProtocolShort, "", trimmedRemote)
}

func buildRemoteURL(originalRemote string, protocol RemoteProtocol, host string, repositoryPath string) (RemoteURL, error) {
	segments := make([]string, 0)
	for _, segment := range strings.Split(repositoryPath, pathSeparatorConstant) {
		trimmedSegment := strings.TrimSpace(segment)
		if len(trimmedSegment) > 0 {
			segments = append(segments, trimmedSegment)
		}
	}
	if len(segments) > 0 {
		segments[len(segments)-1] = strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	}
	if len(segments) < 2 || len(segments[len(segments)-1]) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: missingOwnerMessageConstant}
	}

	ownerSegments := segments[:len(segments)-1]
	if protocol == RemoteProtocolFile {
		ownerSegments = ownerSegments[len(ownerSegments)-1:]
	}

	return RemoteURL{
		Protocol:   protocol,
		Host:       host,
		Owner:      strings.Join(ownerSegments, pathSeparatorConstant),
		Repository: segments[len(segments)-1],
	}, nil
}
