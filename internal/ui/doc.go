// Package ui renders command activity for people reading the console.
//
// Structured telemetry stays with the diagnostic logger; this package only
// turns git lifecycle events into short sentences.
package ui
