// Package services wraps the REST endpoints of the event-management API
// in typed calls. Services are cheap and are built per request around a
// gateway connection bound to the caller's session.
package services

import (
	"context"
	"net/url"
)

// API is the call surface of a gateway connection.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
	PostForm(ctx context.Context, path string, form url.Values, out interface{}) error
}
