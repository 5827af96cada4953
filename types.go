package d1

// Row is a single database record keyed by column name.
type Row = map[string]any

// QueryResponse is the envelope returned by the D1 query endpoint.
type QueryResponse[T any] struct {
	// Errors lists failures reported by the API. Any entry marks the request as failed.
	Errors []QueryError `json:"errors"`
	// Messages lists informational notices attached to the response.
	Messages []QueryMessage `json:"messages"`
	// Result holds one entry per submitted statement, in submission order.
	Result []QueryResult[T] `json:"result"`
	// Success is the API's own success flag.
	Success bool `json:"success"`
}

// Failed reports whether the envelope describes a failed request, combining
// the success flag with the presence of errors.
func (r *QueryResponse[T]) Failed() bool {
	return !r.Success || len(r.Errors) > 0
}

// QueryResult is the outcome of one statement.
type QueryResult[T any] struct {
	// Meta carries execution statistics for the statement.
	Meta QueryMetadata `json:"meta"`
	// Results are the returned rows. Empty when nothing matched.
	Results []T `json:"results"`
	// Success is the per-statement success flag.
	Success bool `json:"success"`
}

// QueryMetadata describes execution statistics for one statement.
type QueryMetadata struct {
	ChangedDB   bool    `json:"changed_db"`
	Changes     int64   `json:"changes"`
	Duration    float64 `json:"duration"` // milliseconds
	LastRowID   int64   `json:"last_row_id"`
	RowsRead    int64   `json:"rows_read"`
	RowsWritten int64   `json:"rows_written"`
	SizeAfter   int64   `json:"size_after"`
}

// QueryError is an error entry in the response envelope.
type QueryError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// QueryMessage is an informational entry in the response envelope.
type QueryMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
