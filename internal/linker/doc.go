// Package linker swaps a project's versioned dependencies for local working
// copies and reverses the swap.
//
// A link writes a registry record describing the package's prior declaration
// and then points composer.json at the local directory through a path
// repository and a "*" constraint. Unlinking replays the record in reverse so
// the manifest ends up as if the link never happened. Conditions such as
// "already linked" or "not installed" are reported as outcomes, not errors, so
// a wildcard batch keeps going past them.
package linker
