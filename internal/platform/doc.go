// Package platform provides the filesystem plumbing composer-link needs on
// every OS: turning a user-supplied path (possibly ending in a "/*" wildcard)
// into absolute package directories, writing files atomically, and reading
// symlink targets to report whether Composer installed a linked package as a
// symlink into vendor/.
package platform
