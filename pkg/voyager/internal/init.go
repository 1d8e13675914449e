// Package internal contains shared infrastructure for the voyager packages:
// logging and input timing helpers.
// Types and functions in this package are not part of the public API.
package internal
