package binanceapi

// QueryRecordList is the paginated envelope of the history endpoints.
// Total is the number of records on the server, it's not the length of Rows.
//
//	{"list": [...], "total": 42}
type QueryRecordList[T any] struct {
	Rows  []T `json:"list"`
	Total int `json:"total"`
}

func (l *QueryRecordList[T]) Len() int {
	return len(l.Rows)
}

func (l *QueryRecordList[T]) IsEmpty() bool {
	return len(l.Rows) == 0
}
