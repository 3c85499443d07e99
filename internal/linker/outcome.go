package linker

// Kind classifies what happened to one package.
type Kind int

const (
	KindLinked Kind = iota + 1
	KindSkipped
	KindUnlinked
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindLinked:
		return "linked"
	case KindSkipped:
		return "skipped"
	case KindUnlinked:
		return "unlinked"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// SkipReason says why a link was not made.
type SkipReason string

const (
	ReasonAlreadyLinked SkipReason = "already-linked"
	ReasonNotInstalled  SkipReason = "not-installed"
)

// Outcome reports the result of linking or unlinking one path.
type Outcome struct {
	Kind Kind
	Name string // empty for KindNotFound
	Path string

	// Reason and LinkedFrom are set for KindSkipped. LinkedFrom is the path
	// of the existing link when Reason is ReasonAlreadyLinked.
	Reason     SkipReason
	LinkedFrom string
}

// Changed reports whether the outcome mutated the manifest.
func (o Outcome) Changed() bool {
	return o.Kind == KindLinked || o.Kind == KindUnlinked
}

// Affected returns the names of packages whose state changed, in order.
func Affected(outcomes []Outcome) []string {
	var names []string
	for _, o := range outcomes {
		if o.Changed() {
			names = append(names, o.Name)
		}
	}
	return names
}
