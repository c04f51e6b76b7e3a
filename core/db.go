package core

// DBOrdering describes how a list query must be sorted.
type DBOrdering struct {
	Field     string
	Ascending bool
}

// Direction returns the document store sort direction (1 | -1).
func (ord DBOrdering) Direction() int {
	if ord.Ascending {
		return 1
	}
	return -1
}
