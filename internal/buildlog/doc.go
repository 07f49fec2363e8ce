// Package buildlog turns make/CMake build logs into JUnit reports with one test case per
// built or failed target.
package buildlog
