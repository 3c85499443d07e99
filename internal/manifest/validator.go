package manifest

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	//go:embed schema/package.schema.json
	packageSchemaBytes []byte

	//go:embed schema/links.schema.json
	linksSchemaBytes []byte
)

var (
	packageSchema = &lazySchema{name: "package.schema.json", raw: packageSchemaBytes}
	linksSchema   = &lazySchema{name: "links.schema.json", raw: linksSchemaBytes}

	printer = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/name", "/packages/0/requireSection")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

// String formats the issue as "path: message".
func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// lazySchema compiles an embedded schema on first use.
type lazySchema struct {
	name string
	raw  []byte

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

func (l *lazySchema) get() (*jsonschema.Schema, error) {
	l.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(l.raw))
		if err != nil {
			l.err = fmt.Errorf("unmarshaling schema %s: %w", l.name, err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(l.name, doc); err != nil {
			l.err = fmt.Errorf("adding schema resource %s: %w", l.name, err)
			return
		}
		l.compiled, l.err = c.Compile(l.name)
		if l.err != nil {
			l.err = fmt.Errorf("compiling schema %s: %w", l.name, l.err)
		}
	})
	return l.compiled, l.err
}

// ValidatePackage validates a package directory's composer.json against the
// identity schema: the document must be an object with a non-empty string name.
// The error return is for malformed JSON or schema compilation failures.
func ValidatePackage(data []byte) (*ValidationResult, error) {
	return validate(packageSchema, data)
}

// ValidateLinks validates the contents of the tracking store.
func ValidateLinks(data []byte) (*ValidationResult, error) {
	return validate(linksSchema, data)
}

func validate(l *lazySchema, data []byte) (*ValidationResult, error) {
	schema, err := l.get()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf errors
// with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords only say that a nested branch failed.
		if keyword == "allOf" || keyword == "$ref" || keyword == "if" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
