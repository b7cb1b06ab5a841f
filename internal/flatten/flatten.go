// Package flatten turns nested exchange-format records into flat rows keyed by
// dot-joined paths, and expands array-valued fields into one row per element.
package flatten

import "strings"

// Separator joins nested keys.
const Separator = "."

// Row is a flattened record: dot-joined path to scalar (or array) value.
type Row map[string]any

// Parent copies the value at Path in the source record onto every exploded row as As.
type Parent struct {
	As   string
	Path string
}

// Flatten flattens rec. Nested objects become dot-joined keys, arrays and scalars are
// kept as they are, and empty objects contribute no keys.
func Flatten(rec map[string]any) Row {
	out := make(Row, len(rec))
	flattenInto(out, "", rec)
	return out
}

func flattenInto(out Row, prefix string, obj map[string]any) {
	for k, v := range obj {
		key := k
		if prefix != "" {
			key = prefix + Separator + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = v
	}
}

// Explode returns one flattened row per object element of the array at field, in
// source order. A null or absent field, or a null / non-object element, yields no
// row. Parent values are copied onto each row and win over element keys of the
// same name.
func Explode(rec map[string]any, field string, parents ...Parent) []Row {
	items, ok := lookup(rec, field).([]any)
	if !ok || len(items) == 0 {
		return nil
	}

	var parentVals Row
	if len(parents) > 0 {
		flat := Flatten(rec)
		parentVals = make(Row, len(parents))
		for _, p := range parents {
			parentVals[p.As] = flat[p.Path]
		}
	}

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row := Flatten(obj)
		for k, v := range parentVals {
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows
}

// lookup walks a dot-joined path through nested objects.
func lookup(rec map[string]any, path string) any {
	cur := any(rec)
	for _, part := range strings.Split(path, Separator) {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[part]
	}
	return cur
}
