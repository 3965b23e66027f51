package analytics

import (
	"cmp"
	"slices"
	"strings"

	"sales-dashboard/internal/models"
)

// OrderPolicy turns reduced values into the ordered points of a series.
type OrderPolicy interface {
	Order(values map[string]float64) []models.Point
}

type descendingOrder struct {
	limit int
}

// Descending orders by value, highest first, ties broken by ascending key.
// A positive limit keeps only the first limit points.
func Descending(limit int) OrderPolicy {
	return descendingOrder{limit: limit}
}

func (o descendingOrder) Order(values map[string]float64) []models.Point {
	points := make([]models.Point, 0, len(values))
	for k, v := range values {
		points = append(points, models.Point{Key: k, Value: v})
	}
	slices.SortFunc(points, func(a, b models.Point) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})

	if o.limit > 0 && len(points) > o.limit {
		points = points[:o.limit]
	}
	return points
}

type fixedOrder struct {
	keys []string
}

// FixedOrder emits exactly keys, in order. Keys missing from the values are
// zero-filled; values whose key is not listed are dropped.
func FixedOrder(keys []string) OrderPolicy {
	return fixedOrder{keys: slices.Clone(keys)}
}

func (o fixedOrder) Order(values map[string]float64) []models.Point {
	points := make([]models.Point, len(o.keys))
	for i, k := range o.keys {
		points[i] = models.Point{Key: k, Value: values[k]}
	}
	return points
}
