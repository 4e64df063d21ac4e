package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/golang/glog"
	"github.com/granddizzy/orders/client"
	"github.com/granddizzy/orders/client/auth/transport"
	"github.com/granddizzy/orders/schema"
)

// ErrUnsupported is returned by a store thunk whose lister cannot serve it.
var ErrUnsupported = errors.New("operation not supported")

// Lister fetches one page of a resource list.
type Lister[T schema.Entity] interface {
	FetchPage(ctx context.Context, req FetchRequest) (*schema.Page[T], error)
}

// Entities is implemented by listers that also serve single entity operations.
type Entities[T schema.Entity] interface {
	Get(ctx context.Context, id int) (*T, error)
	Create(ctx context.Context, input any) (*T, error)
	Update(ctx context.Context, id int, input any) (*T, error)
	Delete(ctx context.Context, id int) error
}

// Endpoint binds a resource path (products, orders, ...) to an API client.
type Endpoint[T schema.Entity] struct {
	Resource string
	client   *client.Client
}

// FetchPage issues GET /{resource}?page=&per_page=&search=.
func (e *Endpoint[T]) FetchPage(ctx context.Context, req FetchRequest) (*schema.Page[T], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = DefaultPageSize
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(req.Page))
	query.Set("per_page", strconv.Itoa(req.PageSize))
	query.Set("search", req.Search)
	if req.Token != "" {
		ctx = transport.WithAuthToken(ctx, req.Token)
	}
	cli := e.client.WithBaseURL(req.BaseURL)
	data, err := cli.Do(ctx, http.MethodGet, e.Resource, query, nil)
	if err != nil {
		return nil, err
	}
	page, err := schema.DecodePage[T](data, req.Page)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s page %d: %w", e.Resource, req.Page, err)
	}
	if page.Bare {
		glog.V(1).Infof("[%s] bare list response for page %d, treating it as final\n", e.Resource, req.Page)
	}
	return page, nil
}

// Get issues GET /{resource}/{id}; 404 is reported as *client.NotFoundError.
func (e *Endpoint[T]) Get(ctx context.Context, id int) (*T, error) {
	ret, err := client.Get[T](ctx, e.client, e.path(id), nil)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, &client.NotFoundError{Resource: e.Resource, Id: id, Err: err}
		}
		return nil, err
	}
	if ret == nil {
		return nil, &client.NotFoundError{Resource: e.Resource, Id: id}
	}
	return ret, nil
}

// Create issues POST /{resource}.
func (e *Endpoint[T]) Create(ctx context.Context, input any) (*T, error) {
	return client.Post[T](ctx, e.client, e.Resource, input)
}

// Update issues PUT /{resource}/{id}.
func (e *Endpoint[T]) Update(ctx context.Context, id int, input any) (*T, error) {
	ret, err := client.Put[T](ctx, e.client, e.path(id), input)
	if err != nil && client.IsNotFound(err) {
		return nil, &client.NotFoundError{Resource: e.Resource, Id: id, Err: err}
	}
	return ret, err
}

// Delete issues DELETE /{resource}/{id}.
func (e *Endpoint[T]) Delete(ctx context.Context, id int) error {
	_, err := client.Delete[struct{}](ctx, e.client, e.path(id))
	if err != nil && client.IsNotFound(err) {
		return &client.NotFoundError{Resource: e.Resource, Id: id, Err: err}
	}
	return err
}

func (e *Endpoint[T]) path(id int, elements ...string) string {
	ret := e.Resource + "/" + strconv.Itoa(id)
	for _, elem := range elements {
		ret += "/" + url.PathEscape(elem)
	}
	return ret
}

// DeleteReturning issues DELETE on a sub path of entity id and decodes the
// updated parent the server answers with.
func DeleteReturning[P any, T schema.Entity](ctx context.Context, e *Endpoint[T], id int, elements ...string) (*P, error) {
	return client.Delete[P](ctx, e.client, e.path(id, elements...))
}

// NewEndpoint creates an endpoint for resource.
func NewEndpoint[T schema.Entity](cli *client.Client, resource string) *Endpoint[T] {
	return &Endpoint[T]{Resource: resource, client: cli}
}

// Users is the users endpoint with role management.
type Users struct {
	*Endpoint[schema.User]
}

// AddRole issues POST /users/{id}/roles and returns the updated user.
func (u *Users) AddRole(ctx context.Context, id int, role string) (*schema.User, error) {
	return client.Post[schema.User](ctx, u.client, u.path(id, "roles"), &schema.RoleAssignment{Role: role})
}

// RemoveRole issues DELETE /users/{id}/roles/{role} and returns the updated user.
func (u *Users) RemoveRole(ctx context.Context, id int, role string) (*schema.User, error) {
	return DeleteReturning[schema.User](ctx, u.Endpoint, id, "roles", role)
}

// NewUsers creates the users endpoint.
func NewUsers(cli *client.Client) *Users {
	return &Users{Endpoint: NewEndpoint[schema.User](cli, "users")}
}
