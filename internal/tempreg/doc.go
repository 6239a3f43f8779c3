// Package tempreg tracks temporary files and directories created during one
// native build run and removes them all exactly once when the run ends.
package tempreg
