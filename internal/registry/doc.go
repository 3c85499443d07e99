// Package registry persists the records that make a link reversible.
//
// One record is kept per linked package in <vendor-dir>/composer-link.json.
// Every query reads the file fresh and every mutation rewrites it whole, so
// edits made by hand between commands are picked up. A missing, unreadable,
// or corrupt file reads as an empty collection and a warning is logged.
package registry
