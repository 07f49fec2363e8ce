// Package pathselect expands glob patterns into the ordered set of directories
// recheckout inspects.
//
// Patterns use doublestar syntax and are evaluated against a root directory.
// A pattern prefixed with "!" removes matching directories from the result.
package pathselect
