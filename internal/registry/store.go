package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/composer-link/composer-link/internal/branding"
	"github.com/composer-link/composer-link/internal/manifest"
	"github.com/composer-link/composer-link/internal/platform"
)

// Store reads and writes the tracking file in a project's vendor directory.
type Store struct {
	path   string
	logger *log.Logger
}

type storeFile struct {
	Packages []Record `json:"packages"`
}

// NewStore returns a Store for vendorDir. A nil logger discards warnings.
func NewStore(vendorDir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		path:   filepath.Join(vendorDir, branding.StoreFile()),
		logger: logger,
	}
}

// Path returns the tracking file location.
func (s *Store) Path() string {
	return s.path
}

// Add stores r, replacing any record with the same name.
func (s *Store) Add(r Record) error {
	rs := s.load()
	rs.put(r)
	return s.save(rs)
}

// Remove deletes the record for name. Removing an unknown name does not
// touch the file.
func (s *Store) Remove(name string) error {
	rs := s.load()
	if !rs.delete(name) {
		return nil
	}
	return s.save(rs)
}

// FindByName returns the record for name.
func (s *Store) FindByName(name string) (Record, bool) {
	return s.load().get(name)
}

// FindByPath returns the first record linked from path.
func (s *Store) FindByPath(path string) (Record, bool) {
	for _, r := range s.load().list() {
		if r.Path == path {
			return r, true
		}
	}
	return Record{}, false
}

// All returns every record in stored order.
func (s *Store) All() []Record {
	return s.load().list()
}

func (s *Store) load() *records {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cannot read link records, treating as empty", "path", s.path, "err", err)
		}
		return newRecords(nil)
	}

	result, err := manifest.ValidateLinks(data)
	if err != nil {
		s.logger.Warn("link records are not valid JSON, treating as empty", "path", s.path, "err", err)
		return newRecords(nil)
	}
	if !result.Valid {
		s.logger.Warn("link records are malformed, treating as empty", "path", s.path, "issue", result.Issues[0].String())
		return newRecords(nil)
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warn("cannot decode link records, treating as empty", "path", s.path, "err", err)
		return newRecords(nil)
	}
	return newRecords(f.Packages)
}

func (s *Store) save(rs *records) error {
	f := storeFile{Packages: rs.list()}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding link records: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.path), err)
	}
	if err := platform.WriteFileAtomic(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing link records: %w", err)
	}
	s.logger.Debug("saved link records", "path", s.path, "count", len(f.Packages))
	return nil
}
