package nv

import (
	"slices"
	"strings"
)

// Sort method constants
const (
	SortNatural    = 0 // Locale-aware natural order (e.g., file1, file2, file10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain listing order (no sort)
)

// SortStrategy defines the interface for different sorting strategies
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(images []ImageEntry) []ImageEntry
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// NaturalSortStrategy orders by name with a NaturalOrder
type NaturalSortStrategy struct {
	Order *NaturalOrder // DefaultNaturalOrder when nil
}

func (s *NaturalSortStrategy) Sort(images []ImageEntry) []ImageEntry {
	order := s.Order
	if order == nil {
		order = defaultOrder
	}

	result := slices.Clone(images)
	if result == nil {
		return []ImageEntry{}
	}
	slices.SortStableFunc(result, func(a, b ImageEntry) int {
		return order.Compare(a.Name, b.Name)
	})
	return result
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

func (s *NaturalSortStrategy) ID() int {
	return SortNatural
}

// SimpleSortStrategy implements lexicographical sorting
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(images []ImageEntry) []ImageEntry {
	result := slices.Clone(images)
	if result == nil {
		return []ImageEntry{}
	}
	slices.SortStableFunc(result, func(a, b ImageEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result
}

func (s *SimpleSortStrategy) Name() string {
	return "Simple"
}

func (s *SimpleSortStrategy) ID() int {
	return SortSimple
}

// EntryOrderSortStrategy preserves the original order
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(images []ImageEntry) []ImageEntry {
	result := slices.Clone(images)
	if result == nil {
		return []ImageEntry{}
	}
	return result
}

func (s *EntryOrderSortStrategy) Name() string {
	return "Entry Order"
}

func (s *EntryOrderSortStrategy) ID() int {
	return SortEntryOrder
}

// GetSortStrategy returns the appropriate strategy based on the sort method ID
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortNatural:
		return &NaturalSortStrategy{}
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{} // Default fallback
	}
}

// NextSortStrategy returns the strategy after sortMethod in the cycle
func NextSortStrategy(sortMethod int) SortStrategy {
	return GetSortStrategy((sortMethod + 1) % len(GetAllSortStrategies()))
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}
