// Package utils provides small helpers shared by the livebox packages:
// path resolution relative to a base directory, locating the binary's
// directory, and bounded reads and closes.
package utils
