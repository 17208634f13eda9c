package listing

// Prepare filters then sorts, collecting every malformed item from both stages.
// The result is the ordered sequence pagination works from.
func Prepare[T any](items []T, c Criteria, s Schema[T]) Outcome[T] {
	filtered := Filter(items, c, s)
	sorted := SortByDateDesc(filtered.Items, s)
	return Outcome[T]{
		Items:     sorted.Items,
		Malformed: append(filtered.Malformed, sorted.Malformed...),
	}
}

// Run is Prepare followed by Paginate
func Run[T any](items []T, c Criteria, s Schema[T], req PageRequest) (PageResult[T], Outcome[T], error) {
	if err := s.Validate(c); err != nil {
		return PageResult[T]{}, Outcome[T]{}, err
	}
	prepared := Prepare(items, c, s)
	page, err := Paginate(prepared.Items, req)
	if err != nil {
		return PageResult[T]{}, prepared, err
	}
	return page, prepared, nil
}
