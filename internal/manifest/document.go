package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	repositoriesKey = "repositories"
	defaultIndent   = "    "
)

// Document is an in-memory composer.json. Edits address one key at a time on
// the raw bytes, so members the edit does not touch keep their order and
// values. Bytes re-indents the result with the indentation found in the
// original file.
type Document struct {
	raw    []byte
	indent string
}

// ParseDocument wraps data, which must be a JSON object.
func ParseDocument(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("top-level value is not an object")
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &Document{raw: raw, indent: detectIndent(data)}, nil
}

// Bytes returns the formatted document with a trailing newline.
func (d *Document) Bytes() []byte {
	return pretty.PrettyOptions(d.raw, &pretty.Options{Indent: d.indent})
}

// Get returns the constraint declared for name in section.
func (d *Document) Get(section Section, name string) (string, bool) {
	r := gjson.GetBytes(d.raw, memberPath(string(section), name))
	if !r.Exists() {
		return "", false
	}
	return r.String(), true
}

// Set declares name in section with constraint, creating the section if needed.
func (d *Document) Set(section Section, name, constraint string) error {
	raw, err := sjson.SetBytes(d.raw, memberPath(string(section), name), constraint)
	if err != nil {
		return fmt.Errorf("setting %s.%s: %w", section, name, err)
	}
	d.raw = raw
	return nil
}

// Delete removes name from section. Missing names are ignored.
func (d *Document) Delete(section Section, name string) error {
	path := memberPath(string(section), name)
	if !gjson.GetBytes(d.raw, path).Exists() {
		return nil
	}
	raw, err := sjson.DeleteBytes(d.raw, path)
	if err != nil {
		return fmt.Errorf("removing %s.%s: %w", section, name, err)
	}
	d.raw = raw
	return nil
}

// Repository returns the raw descriptor registered under key.
func (d *Document) Repository(key string) (gjson.Result, bool) {
	repos := gjson.GetBytes(d.raw, repositoriesKey)
	if repos.IsArray() {
		for _, entry := range repos.Array() {
			if entry.Get("name").String() == key {
				return entry, true
			}
		}
		return gjson.Result{}, false
	}
	r := repos.Get(gjson.Escape(key))
	return r, r.Exists()
}

// SetRepository upserts a repository descriptor under key. When repositories
// is a list the descriptor carries key as its name and replaces any entry of
// the same name.
func (d *Document) SetRepository(key string, repo pathRepository) error {
	repos := gjson.GetBytes(d.raw, repositoriesKey)

	if repos.IsArray() {
		if err := d.deleteRepositoryEntries(key); err != nil {
			return err
		}
		repo.Name = key
		value, err := json.Marshal(repo)
		if err != nil {
			return fmt.Errorf("encoding repository %s: %w", key, err)
		}
		raw, err := sjson.SetRawBytes(d.raw, repositoriesKey+".-1", value)
		if err != nil {
			return fmt.Errorf("adding repository %s: %w", key, err)
		}
		d.raw = raw
		return nil
	}

	repo.Name = ""
	value, err := json.Marshal(repo)
	if err != nil {
		return fmt.Errorf("encoding repository %s: %w", key, err)
	}
	raw, err := sjson.SetRawBytes(d.raw, memberPath(repositoriesKey, key), value)
	if err != nil {
		return fmt.Errorf("adding repository %s: %w", key, err)
	}
	d.raw = raw
	return nil
}

// DeleteRepository removes the descriptor registered under key. Missing keys
// are ignored. A repositories member left empty is removed as well.
func (d *Document) DeleteRepository(key string) error {
	repos := gjson.GetBytes(d.raw, repositoriesKey)
	if !repos.Exists() {
		return nil
	}

	if repos.IsArray() {
		if err := d.deleteRepositoryEntries(key); err != nil {
			return err
		}
	} else if repos.Get(gjson.Escape(key)).Exists() {
		raw, err := sjson.DeleteBytes(d.raw, memberPath(repositoriesKey, key))
		if err != nil {
			return fmt.Errorf("removing repository %s: %w", key, err)
		}
		d.raw = raw
	} else {
		return nil
	}

	if isEmptyContainer(gjson.GetBytes(d.raw, repositoriesKey)) {
		raw, err := sjson.DeleteBytes(d.raw, repositoriesKey)
		if err != nil {
			return fmt.Errorf("removing empty repositories: %w", err)
		}
		d.raw = raw
	}
	return nil
}

// deleteRepositoryEntries drops list entries named key, highest index first
// so earlier indexes stay valid.
func (d *Document) deleteRepositoryEntries(key string) error {
	entries := gjson.GetBytes(d.raw, repositoriesKey).Array()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Get("name").String() != key {
			continue
		}
		raw, err := sjson.DeleteBytes(d.raw, repositoriesKey+"."+strconv.Itoa(i))
		if err != nil {
			return fmt.Errorf("removing repository %s: %w", key, err)
		}
		d.raw = raw
	}
	return nil
}

func memberPath(parent, key string) string {
	return gjson.Escape(parent) + "." + gjson.Escape(key)
}

func isEmptyContainer(r gjson.Result) bool {
	if !r.IsArray() && !r.IsObject() {
		return false
	}
	empty := true
	r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}

// detectIndent returns the leading whitespace of the first indented line,
// which in a pretty-printed object is one nesting level.
func detectIndent(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 || len(trimmed) == len(line) {
			continue
		}
		return string(line[:len(line)-len(trimmed)])
	}
	return defaultIndent
}
