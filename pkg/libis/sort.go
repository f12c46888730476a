package libis

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type (
	// A SortType is the field a list is ordered by.
	SortType string
	// A SortOrder is the direction a list is ordered in.
	SortOrder string
)

const (
	// SortTypeUpdatedAt orders by last update time.
	SortTypeUpdatedAt SortType = "updatedAt"
	// SortTypePriority orders by priority code.
	SortTypePriority SortType = "priority"

	// SortOrderAsc is the ascending direction.
	SortOrderAsc SortOrder = "asc"
	// SortOrderDesc is the descending direction.
	SortOrderDesc SortOrder = "desc"
)

// A SortSpec is a full ordering choice for the item list.
// It is ephemeral UI state and is never persisted.
type SortSpec struct {
	Type  SortType
	Order SortOrder
}

// DefaultSort is the ordering applied until the user picks another one:
// newest first.
func DefaultSort() SortSpec {
	return SortSpec{Type: SortTypeUpdatedAt, Order: SortOrderDesc}
}

// SortChoices returns the four orderings offered by the picker.
// Priority codes ascend from 1 = highest, so high-first is ascending.
func SortChoices() []SortSpec {
	return []SortSpec{
		{Type: SortTypeUpdatedAt, Order: SortOrderDesc},
		{Type: SortTypeUpdatedAt, Order: SortOrderAsc},
		{Type: SortTypePriority, Order: SortOrderAsc},
		{Type: SortTypePriority, Order: SortOrderDesc},
	}
}

// Key renders the ordering in its picker form, e.g. "updatedAt:desc".
func (s SortSpec) Key() string {
	return fmt.Sprintf("%s:%s", s.Type, s.Order)
}

// Label returns a human description of the ordering.
func (s SortSpec) Label() string {
	switch s {
	case SortSpec{Type: SortTypeUpdatedAt, Order: SortOrderDesc}:
		return "last update, newest first"
	case SortSpec{Type: SortTypeUpdatedAt, Order: SortOrderAsc}:
		return "last update, oldest first"
	case SortSpec{Type: SortTypePriority, Order: SortOrderAsc}:
		return "priority, highest first"
	case SortSpec{Type: SortTypePriority, Order: SortOrderDesc}:
		return "priority, lowest first"
	}
	return s.Key()
}

// ParseSortKey parses a "<type>:<order>" key into a SortSpec.
func ParseSortKey(key string) (SortSpec, error) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return SortSpec{}, errors.Errorf("malformed sort key: %s", key)
	}

	spec := SortSpec{Type: SortType(parts[0]), Order: SortOrder(parts[1])}

	switch spec.Type {
	case SortTypeUpdatedAt, SortTypePriority:
	default:
		return SortSpec{}, errors.Errorf("unknown sort type: %s", parts[0])
	}

	switch spec.Order {
	case SortOrderAsc, SortOrderDesc:
	default:
		return SortSpec{}, errors.Errorf("unknown sort order: %s", parts[1])
	}

	return spec, nil
}
