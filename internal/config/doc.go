// Package config resolves composer-link settings from flags, COMPOSER_LINK_*
// environment variables, the user file at ~/.composer-link/config.yaml, and
// the project's composer.json, in that order of precedence.
package config
