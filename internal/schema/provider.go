package schema

import (
	"context"
	"fmt"

	"github.com/mark3labs/pathway/internal/path"
)

var _ path.MetadataProvider = (*Catalog)(nil)

// MasterRecordType returns the object's default record type name,
// empty when the object declares none.
func (c *Catalog) MasterRecordType(ctx context.Context, object string) (string, error) {
	obj, ok := c.Object(object)
	if !ok {
		return "", fmt.Errorf("unknown object %q", object)
	}
	return obj.MasterRecordType, nil
}

// Picklist returns the field label and the entries enabled for the
// record type, in declaration order. The master record type and any
// unknown type resolve to the field's full value list.
func (c *Catalog) Picklist(ctx context.Context, object, recordType, field string) (path.Picklist, error) {
	obj, ok := c.Object(object)
	if !ok {
		return path.Picklist{}, fmt.Errorf("unknown object %q", object)
	}
	f, ok := obj.Field(field)
	if !ok {
		return path.Picklist{}, fmt.Errorf("unknown field %q on object %q", field, object)
	}
	if f.Type != "picklist" {
		return path.Picklist{}, fmt.Errorf("field %q on object %q is not a picklist", field, object)
	}

	pick := path.Picklist{FieldLabel: f.Label}

	if recordType != obj.MasterRecordType {
		if rt, ok := obj.RecordType(recordType); ok {
			if subset, ok := rt.Picklists[field]; ok {
				labels := make(map[string]string, len(f.Values))
				for _, v := range f.Values {
					labels[v.Value] = v.Label
				}
				for _, value := range subset {
					label, ok := labels[value]
					if !ok {
						continue
					}
					pick.Entries = append(pick.Entries, path.PicklistEntry{Value: value, Label: label})
				}
				return pick, nil
			}
		}
	}

	for _, v := range f.Values {
		pick.Entries = append(pick.Entries, path.PicklistEntry{Value: v.Value, Label: v.Label})
	}
	return pick, nil
}

// PathConfig assembles the path binding for one record of an object.
func (c *Catalog) PathConfig(object, recordID string) (path.Config, error) {
	obj, ok := c.Object(object)
	if !ok {
		return path.Config{}, fmt.Errorf("unknown object %q", object)
	}

	placeholder := obj.Path.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	return path.Config{
		Object:      obj.Name,
		RecordID:    recordID,
		Field:       obj.Path.Field,
		ClosedOk:    obj.Path.ClosedOk,
		ClosedKo:    obj.Path.ClosedKo,
		Placeholder: placeholder,
		HideButton:  obj.Path.HideButton,
	}, nil
}
