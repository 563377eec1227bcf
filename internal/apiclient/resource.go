package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// Resource is a uniform CRUD collection of the back office API: list, get,
// create, partial update and delete under one path.
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds a collection path such as "/vouchers".
func NewResource[T any](c *Client, path string) Resource[T] {
	return Resource[T]{c: c, path: path}
}

// Path returns the collection path.
func (r Resource[T]) Path() string { return r.path }

// List returns the collection, passing query through for paging and filters.
func (r Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var out []T
	if err := r.c.get(ctx, r.path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one element.
func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.get(ctx, r.item(id), nil, &out)
	return out, err
}

// Create posts a new element and returns what the API stored.
func (r Resource[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, nil, v, &out)
	return out, err
}

// Update patches an element with the given fields.
func (r Resource[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPatch, r.item(id), nil, patch, &out)
	return out, err
}

// Delete removes an element.
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

func (r Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
