// Package buildlog provides the command that turns a make/CMake build log into a JUnit report.
package buildlog
