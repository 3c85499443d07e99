package registry

import "github.com/composer-link/composer-link/internal/manifest"

// Record captures what a package's declaration looked like before it was
// linked. OriginalConstraint is nil exactly when WasNewRequirement is true.
type Record struct {
	Name               string           `json:"name"`
	Path               string           `json:"path"`
	OriginalConstraint *string          `json:"originalConstraint"`
	WasNewRequirement  bool             `json:"wasNewRequirement"`
	RequireSection     manifest.Section `json:"requireSection"`
}

// NewRecord returns the record for a package that had no declaration.
func NewRecord(name, path string) Record {
	return Record{
		Name:              name,
		Path:              path,
		WasNewRequirement: true,
		RequireSection:    manifest.SectionRequire,
	}
}

// ExistingRecord returns the record for a package previously declared in
// section with constraint.
func ExistingRecord(name, path string, section manifest.Section, constraint string) Record {
	return Record{
		Name:               name,
		Path:               path,
		OriginalConstraint: &constraint,
		RequireSection:     section,
	}
}

// Constraint returns the original constraint, or "" for a new requirement.
func (r Record) Constraint() string {
	if r.OriginalConstraint == nil {
		return ""
	}
	return *r.OriginalConstraint
}

// records is an insertion-ordered set of records keyed by name.
type records struct {
	order  []string
	byName map[string]Record
}

func newRecords(list []Record) *records {
	rs := &records{byName: make(map[string]Record, len(list))}
	for _, r := range list {
		rs.put(r)
	}
	return rs
}

// put replaces any record with the same name and moves it to the end.
func (rs *records) put(r Record) {
	rs.delete(r.Name)
	rs.order = append(rs.order, r.Name)
	rs.byName[r.Name] = r
}

func (rs *records) delete(name string) bool {
	if _, ok := rs.byName[name]; !ok {
		return false
	}
	delete(rs.byName, name)
	for i, n := range rs.order {
		if n == name {
			rs.order = append(rs.order[:i], rs.order[i+1:]...)
			break
		}
	}
	return true
}

func (rs *records) get(name string) (Record, bool) {
	r, ok := rs.byName[name]
	return r, ok
}

func (rs *records) list() []Record {
	out := make([]Record, 0, len(rs.order))
	for _, n := range rs.order {
		out = append(out, rs.byName[n])
	}
	return out
}
