package domain

// PaginatedList is a window over an ordered result set. Total counts the
// whole set and does not depend on Limit or Offset.
type PaginatedList[T any] struct {
	Total  int64
	Limit  int64
	Offset int64
	Items  []T
}

// MapList converts the items of a page while keeping its bounds.
func MapList[T, U any](l PaginatedList[T], f func(T) U) PaginatedList[U] {
	items := make([]U, len(l.Items))
	for i, it := range l.Items {
		items[i] = f(it)
	}
	return PaginatedList[U]{
		Total:  l.Total,
		Limit:  l.Limit,
		Offset: l.Offset,
		Items:  items,
	}
}
