// Package cli defines the Cobra command tree for composer-link.
//
// Commands resolve the project from --working-dir, hand path arguments to
// the linker, report one line per outcome, and run `composer update` for
// the packages that changed unless --no-update is given. The logger is
// carried in the command context; --verbose switches it to debug level.
package cli
