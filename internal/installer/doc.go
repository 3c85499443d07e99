// Package installer hands the names changed by a link or unlink to Composer
// so it can re-resolve them.
package installer
