// Package schema defines the YAML object catalog: objects, their
// fields and record types, and the path specification that binds a
// picklist field to the progress stepper.
package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/pathway/internal/logger"
	"gopkg.in/yaml.v3"
)

// Catalog is the root of a schema file.
type Catalog struct {
	Objects []Object `yaml:"objects"`
}

// Object describes one record object and its path binding.
type Object struct {
	Name             string       `yaml:"name"`
	Label            string       `yaml:"label"`
	MasterRecordType string       `yaml:"master_record_type,omitempty"`
	RecordTypes      []RecordType `yaml:"record_types,omitempty"`
	Fields           []Field      `yaml:"fields"`
	Path             PathSpec     `yaml:"path"`
}

// Field describes one object field. Picklist fields carry their value
// list in declaration order.
type Field struct {
	Name   string          `yaml:"name"`
	Label  string          `yaml:"label"`
	Type   string          `yaml:"type"` // text, textarea, picklist
	Values []PicklistValue `yaml:"values,omitempty"`
}

// PicklistValue is one selectable value of a picklist field.
type PicklistValue struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// RecordType narrows an object's picklists to an enabled subset per
// field. The subset's declaration order is its display order.
type RecordType struct {
	Name      string              `yaml:"name"`
	Label     string              `yaml:"label"`
	Picklists map[string][]string `yaml:"picklists,omitempty"` // field name -> enabled values
}

// PathSpec binds a picklist field to the path stepper.
type PathSpec struct {
	Field       string `yaml:"field"`
	ClosedOk    string `yaml:"closed_ok"`
	ClosedKo    string `yaml:"closed_ko"`
	Placeholder string `yaml:"placeholder,omitempty"`
	HideButton  bool   `yaml:"hide_button,omitempty"`
}

// DefaultPlaceholder labels the trailing chooser step when a path spec
// does not set its own.
const DefaultPlaceholder = "Closed"

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	logger.Debug("Loaded schema from %s (%d objects)", path, len(catalog.Objects))
	return &catalog, nil
}

// LoadOrDefault reads a catalog file, falling back to the built-in
// demo catalog when the file does not exist.
func LoadOrDefault(path string) (*Catalog, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug("No schema at %s, using the built-in catalog", path)
		return Default(), nil
	}
	return Load(path)
}

// Write serializes a catalog to path, creating parent directories.
func Write(path string, catalog *Catalog) error {
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	data, err := yaml.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create schema directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks catalog consistency: unique object names, path
// fields that exist and are picklists, closed values present among the
// field's values, and record-type subsets that only reference known
// values.
func (c *Catalog) Validate() error {
	if len(c.Objects) == 0 {
		return fmt.Errorf("empty catalog: no objects defined")
	}

	seenObjects := map[string]struct{}{}
	for i, obj := range c.Objects {
		if obj.Name == "" {
			return fmt.Errorf("object %d has empty name", i)
		}
		if _, ok := seenObjects[obj.Name]; ok {
			return fmt.Errorf("duplicate object name: %q", obj.Name)
		}
		seenObjects[obj.Name] = struct{}{}

		if err := obj.validate(); err != nil {
			return fmt.Errorf("object %q: %w", obj.Name, err)
		}
	}
	return nil
}

func (o *Object) validate() error {
	seenFields := map[string]*Field{}
	for i, f := range o.Fields {
		if f.Name == "" {
			return fmt.Errorf("field %d has empty name", i)
		}
		if _, ok := seenFields[f.Name]; ok {
			return fmt.Errorf("duplicate field name: %q", f.Name)
		}
		seenFields[f.Name] = &o.Fields[i]
	}

	if o.Path.Field == "" {
		return fmt.Errorf("path has no field")
	}
	pathField, ok := seenFields[o.Path.Field]
	if !ok {
		return fmt.Errorf("path field %q does not exist", o.Path.Field)
	}
	if pathField.Type != "picklist" {
		return fmt.Errorf("path field %q is not a picklist", o.Path.Field)
	}

	values := map[string]struct{}{}
	for _, v := range pathField.Values {
		values[v.Value] = struct{}{}
	}
	if _, ok := values[o.Path.ClosedOk]; !ok {
		return fmt.Errorf("closed_ok %q is not a value of field %q", o.Path.ClosedOk, o.Path.Field)
	}
	if _, ok := values[o.Path.ClosedKo]; !ok {
		return fmt.Errorf("closed_ko %q is not a value of field %q", o.Path.ClosedKo, o.Path.Field)
	}
	if o.Path.ClosedOk == o.Path.ClosedKo {
		return fmt.Errorf("closed_ok and closed_ko are both %q", o.Path.ClosedOk)
	}

	seenTypes := map[string]struct{}{}
	for _, rt := range o.RecordTypes {
		if rt.Name == "" {
			return fmt.Errorf("record type with empty name")
		}
		if _, ok := seenTypes[rt.Name]; ok {
			return fmt.Errorf("duplicate record type: %q", rt.Name)
		}
		seenTypes[rt.Name] = struct{}{}

		for fieldName, subset := range rt.Picklists {
			f, ok := seenFields[fieldName]
			if !ok {
				return fmt.Errorf("record type %q narrows unknown field %q", rt.Name, fieldName)
			}
			known := map[string]struct{}{}
			for _, v := range f.Values {
				known[v.Value] = struct{}{}
			}
			for _, value := range subset {
				if _, ok := known[value]; !ok {
					return fmt.Errorf("record type %q enables unknown value %q for field %q", rt.Name, value, fieldName)
				}
			}
		}
	}
	if o.MasterRecordType != "" {
		// The master type needs no RecordType entry; it stands for the
		// full value list.
		if _, ok := seenTypes[o.MasterRecordType]; ok {
			return fmt.Errorf("master record type %q must not narrow picklists", o.MasterRecordType)
		}
	}
	return nil
}

// Object returns the named object.
func (c *Catalog) Object(name string) (*Object, bool) {
	for i := range c.Objects {
		if c.Objects[i].Name == name {
			return &c.Objects[i], true
		}
	}
	return nil, false
}

// Field returns the named field of the object.
func (o *Object) Field(name string) (*Field, bool) {
	for i := range o.Fields {
		if o.Fields[i].Name == name {
			return &o.Fields[i], true
		}
	}
	return nil, false
}

// RecordType returns the named record type of the object.
func (o *Object) RecordType(name string) (*RecordType, bool) {
	for i := range o.RecordTypes {
		if o.RecordTypes[i].Name == name {
			return &o.RecordTypes[i], true
		}
	}
	return nil, false
}

// Default returns the built-in demo catalog: a deal object with a
// six-stage pipeline and a renewal record type that skips the early
// stages.
func Default() *Catalog {
	return &Catalog{
		Objects: []Object{
			{
				Name:             "deal",
				Label:            "Deal",
				MasterRecordType: "standard",
				RecordTypes: []RecordType{
					{
						Name:  "renewal",
						Label: "Renewal",
						Picklists: map[string][]string{
							"stage": {"proposal", "negotiation", "closed_won", "closed_lost"},
						},
					},
				},
				Fields: []Field{
					{Name: "name", Label: "Name", Type: "text"},
					{Name: "description", Label: "Description", Type: "textarea"},
					{
						Name:  "stage",
						Label: "Stage",
						Type:  "picklist",
						Values: []PicklistValue{
							{Value: "qualification", Label: "Qualification"},
							{Value: "needs_analysis", Label: "Needs Analysis"},
							{Value: "proposal", Label: "Proposal"},
							{Value: "negotiation", Label: "Negotiation"},
							{Value: "closed_won", Label: "Closed Won"},
							{Value: "closed_lost", Label: "Closed Lost"},
						},
					},
					{Name: "amount", Label: "Amount", Type: "text"},
				},
				Path: PathSpec{
					Field:       "stage",
					ClosedOk:    "closed_won",
					ClosedKo:    "closed_lost",
					Placeholder: "Closed",
				},
			},
		},
	}
}
