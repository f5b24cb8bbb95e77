// Package resource exposes one typed service per backend resource. List and
// get methods are GET-shaped and idempotent; mutating methods are never
// retried at this layer.
package resource

import (
	"context"
	"encoding/json"
	"time"

	"github.com/trustidity/trustidity-go/internal/transport"
	"github.com/trustidity/trustidity-go/model"
)

// decodeList extracts a typed page from a list response. The backend names
// the items array differently per resource (institutions, users, requests,
// logs, plans), so the key is passed in.
func decodeList[T any](resp transport.Response, itemsKey string) (model.QueryResult[T], error) {
	var result model.QueryResult[T]

	fields := map[string]json.RawMessage{}
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &fields); err != nil {
			return result, model.NewNetworkError("malformed list payload: " + err.Error())
		}
	}

	if raw, ok := fields[itemsKey]; ok {
		if err := json.Unmarshal(raw, &result.Items); err != nil {
			return result, model.NewNetworkError("malformed items payload: " + err.Error())
		}
	}
	if raw, ok := fields["pagination"]; ok {
		if err := json.Unmarshal(raw, &result.Pagination); err != nil {
			return result, model.NewNetworkError("malformed pagination payload: " + err.Error())
		}
	}
	result.Pagination = result.Pagination.Clamp()
	result.FetchedAt = time.Now()
	return result, nil
}

// decodeOne extracts a single typed record from a response.
func decodeOne[T any](resp transport.Response) (T, error) {
	var out T
	if len(resp.Data) == 0 {
		return out, model.NewNetworkError("empty response payload")
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, model.NewNetworkError("malformed payload: " + err.Error())
	}
	return out, nil
}

// list issues a GET list request and decodes the typed page.
func list[T any](ctx context.Context, c *transport.Client, path, itemsKey string, q model.QueryRequest) (model.QueryResult[T], error) {
	resp, err := c.Get(ctx, path, q.Normalize().Values())
	if err != nil {
		return model.QueryResult[T]{}, err
	}
	return decodeList[T](resp, itemsKey)
}
