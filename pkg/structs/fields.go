// Package structs provides small reflection helpers over struct fields.
package structs

import "github.com/oleiade/reflections"

// GetField returns the value of the provided obj field. obj can whether be a structure or pointer to structure.
func GetField(obj any, name string) any {
	v, err := reflections.GetField(obj, name)
	if err != nil {
		panic(err)
	}

	return v
}

// HasField checks if the provided obj struct has field named name.
func HasField(obj any, name string) bool {
	ok, err := reflections.HasField(obj, name)
	if err != nil {
		panic(err)
	}

	return ok
}

// Project returns a map holding only the named fields of obj.
// With no names, all exported fields are returned. Names that do not
// resolve to a field of obj are left out of the projection.
func Project(obj any, names ...string) map[string]any {
	if len(names) == 0 {
		items, err := reflections.Items(obj)
		if err != nil {
			panic(err)
		}
		return items
	}

	projection := make(map[string]any, len(names))
	for _, name := range names {
		if !HasField(obj, name) {
			continue
		}
		projection[name] = GetField(obj, name)
	}

	return projection
}
