// Package timelapse captures numbered still images at a fixed interval for
// a bounded duration. A run resumes an existing sequence in the project
// directory instead of overwriting it.
package timelapse
