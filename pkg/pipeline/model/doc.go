// Package model provides the data structures shared by the pipeline package and its plugins.
// It defines the identity of a process, references used to look processes and backups up,
// the read-only process description handed to tracker options, and the option contract itself.
package model
