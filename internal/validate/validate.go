// Package validate checks request bodies against embedded JSON schemas
// before they are decoded into models.
package validate

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/jobboard/pkg/repository"
)

// Schema names.
const (
	Status            = "status"
	StatusOrder       = "status_order"
	ApplicationCreate = "application_create"
	ApplicationUpdate = "application_update"
	FileCreate        = "file_create"
	FileUpdate        = "file_update"
	Presign           = "presign"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var quoted = regexp.MustCompile(`"([^"]+)"`)

// Validator holds the compiled schemas. It is safe for concurrent use.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		b, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, err
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	return v, nil
}

// MustNew is New for package-level wiring; it panics on a broken schema.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Check validates body against the named schema. Schema violations come
// back as a *repository.ValidationError naming the first offending field.
func (v *Validator) Check(ctx context.Context, name string, body []byte) error {
	rs, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	if !json.Valid(body) {
		return repository.Invalid("", "request body is not valid JSON")
	}

	verrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return repository.Invalid("", "invalid request: %v", err)
	}
	if len(verrs) == 0 {
		return nil
	}

	sort.SliceStable(verrs, func(i, j int) bool { return verrs[i].PropertyPath < verrs[j].PropertyPath })
	ke := verrs[0]
	return &repository.ValidationError{Field: fieldOf(ke), Message: ke.Message}
}

// fieldOf names the property a KeyError refers to. Missing required keys are
// reported on the parent object, so the name is taken from the message.
func fieldOf(ke jsonschema.KeyError) string {
	p := strings.Trim(ke.PropertyPath, "/")
	if p != "" {
		return strings.SplitN(p, "/", 2)[0]
	}
	if m := quoted.FindStringSubmatch(ke.Message); m != nil {
		return m[1]
	}
	return ""
}
