package d1

import "context"

// RawQuerier is the raw form of the query operations. The templated helpers
// build their statement and call exactly one of these methods with it, so
// wrapping a Client in a RawQuerier intercepts templated calls too.
type RawQuerier interface {
	ExecRaw(ctx context.Context, sql string, params []any) (*QueryResponse[Row], error)
	AllRaw(ctx context.Context, sql string, params []any) (*QueryResult[Row], error)
	FirstRaw(ctx context.Context, sql string, params []any) (Row, error)
}

// ExecTemplate builds a statement from fragments and values and passes it to q.ExecRaw.
func ExecTemplate(ctx context.Context, q RawQuerier, fragments []string, values ...any) (*QueryResponse[Row], error) {
	stmt, err := Build(fragments, values...)
	if err != nil {
		return nil, err
	}
	return q.ExecRaw(ctx, stmt.SQL, stmt.Params)
}

// AllTemplate builds a statement from fragments and values and passes it to q.AllRaw.
func AllTemplate(ctx context.Context, q RawQuerier, fragments []string, values ...any) (*QueryResult[Row], error) {
	stmt, err := Build(fragments, values...)
	if err != nil {
		return nil, err
	}
	return q.AllRaw(ctx, stmt.SQL, stmt.Params)
}

// FirstTemplate builds a statement from fragments and values and passes it to q.FirstRaw.
func FirstTemplate(ctx context.Context, q RawQuerier, fragments []string, values ...any) (Row, error) {
	stmt, err := Build(fragments, values...)
	if err != nil {
		return nil, err
	}
	return q.FirstRaw(ctx, stmt.SQL, stmt.Params)
}

// Exec runs a templated statement and returns the full response envelope.
//
//	resp, err := c.Exec(ctx, []string{"DELETE FROM users WHERE id = ", ""}, id)
func (c *Client) Exec(ctx context.Context, fragments []string, values ...any) (*QueryResponse[Row], error) {
	return ExecTemplate(ctx, c, fragments, values...)
}

// All runs a templated statement and returns the first result set.
func (c *Client) All(ctx context.Context, fragments []string, values ...any) (*QueryResult[Row], error) {
	return AllTemplate(ctx, c, fragments, values...)
}

// First runs a templated statement and returns the first row, or nil when
// there are no rows.
func (c *Client) First(ctx context.Context, fragments []string, values ...any) (Row, error) {
	return FirstTemplate(ctx, c, fragments, values...)
}
