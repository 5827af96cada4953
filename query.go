package d1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

type queryRequest struct {
	SQL string `json:"sql"`
	// Params is left nil when the caller passed no parameter slice, which omits it.
	Params any `json:"params,omitempty"`
}

type emptyResultError struct {
	op string
}

func (e *emptyResultError) Error() string { return "No query passed to " + e.op }

func (e *emptyResultError) Is(target error) bool { return target == ErrEmptyResultSet }

// ExecRaw sends sql with params and returns the full response envelope.
// A nil params omits the parameter list from the request.
func (c *Client) ExecRaw(ctx context.Context, sql string, params []any) (*QueryResponse[Row], error) {
	return ExecRawAs[Row](ctx, c, sql, params)
}

// AllRaw sends sql with params and returns the first result set.
func (c *Client) AllRaw(ctx context.Context, sql string, params []any) (*QueryResult[Row], error) {
	return AllRawAs[Row](ctx, c, sql, params)
}

// FirstRaw sends sql with params and returns the first row of the first
// result set, or nil when that result set has no rows.
func (c *Client) FirstRaw(ctx context.Context, sql string, params []any) (Row, error) {
	row, err := FirstRawAs[Row](ctx, c, sql, params)
	if err != nil || row == nil {
		return nil, err
	}
	return *row, nil
}

// ExecRawAs is ExecRaw with rows decoded into T.
func ExecRawAs[T any](ctx context.Context, c *Client, sql string, params []any) (*QueryResponse[T], error) {
	raw, err := c.do(ctx, sql, params)
	if err != nil {
		return nil, err
	}
	return decodeRows[T](raw)
}

// AllRawAs is AllRaw with rows decoded into T. It fails with ErrEmptyResultSet
// when the response carries no result sets.
func AllRawAs[T any](ctx context.Context, c *Client, sql string, params []any) (*QueryResult[T], error) {
	resp, err := ExecRawAs[T](ctx, c, sql, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Result) == 0 {
		return nil, &emptyResultError{op: "all"}
	}
	return &resp.Result[0], nil
}

// FirstRawAs is FirstRaw with the row decoded into T. It returns nil, nil when
// the first result set has no rows, and fails with ErrEmptyResultSet when the
// response carries no result sets.
func FirstRawAs[T any](ctx context.Context, c *Client, sql string, params []any) (*T, error) {
	resp, err := ExecRawAs[T](ctx, c, sql, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Result) == 0 {
		return nil, &emptyResultError{op: "first"}
	}
	rows := resp.Result[0].Results
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// do performs the single HTTP exchange behind every operation.
func (c *Client) do(ctx context.Context, sql string, params []any) (_ *QueryResponse[json.RawMessage], err error) {
	if c.recorder != nil {
		done := c.recorder.Start()
		defer func() { done(err) }()
	}

	payload := queryRequest{SQL: sql}
	if params != nil {
		payload.Params = params
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, &TransportError{Err: err}
	}
	body := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("d1: POST " + c.endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("d1: request failed: " + err.Error())
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("d1: reading response failed: " + err.Error())
		return nil, &TransportError{Err: err}
	}

	var envelope QueryResponse[json.RawMessage]
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logger.Error("d1: decoding response failed (HTTP " + resp.Status + "): " + err.Error())
		return nil, &TransportError{Err: err}
	}

	// Errors decide failure regardless of the success flag.
	if len(envelope.Errors) > 0 {
		qerr := remoteQueryError(&envelope)
		c.logger.Error("d1: " + qerr.Error())
		return nil, qerr
	}

	return &envelope, nil
}

func remoteQueryError(raw *QueryResponse[json.RawMessage]) *RemoteQueryError {
	env, err := decodeRows[Row](raw)
	if err != nil {
		env = &QueryResponse[Row]{Errors: raw.Errors, Messages: raw.Messages, Success: raw.Success}
	}
	return &RemoteQueryError{Response: env, Errors: raw.Errors}
}

func decodeRows[T any](raw *QueryResponse[json.RawMessage]) (*QueryResponse[T], error) {
	out := &QueryResponse[T]{
		Errors:   raw.Errors,
		Messages: raw.Messages,
		Success:  raw.Success,
	}
	if raw.Result == nil {
		return out, nil
	}

	out.Result = make([]QueryResult[T], len(raw.Result))
	for i, r := range raw.Result {
		out.Result[i].Meta = r.Meta
		out.Result[i].Success = r.Success
		if r.Results == nil {
			continue
		}
		rows := make([]T, len(r.Results))
		for j, row := range r.Results {
			if err := json.Unmarshal(row, &rows[j]); err != nil {
				return nil, &TransportError{Err: err}
			}
		}
		out.Result[i].Results = rows
	}
	return out, nil
}
