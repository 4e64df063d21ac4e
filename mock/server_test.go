package mock

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/granddizzy/orders/client"
	"github.com/granddizzy/orders/client/auth/transport"
	"github.com/granddizzy/orders/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, cli *client.Client) context.Context {
	t.Helper()
	result, err := client.Post[schema.LoginResult](context.Background(), cli, "login", &schema.Credentials{Email: DefaultEmail, Password: DefaultPassword})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, DefaultEmail, result.User.Email)
	return transport.WithAuthToken(context.Background(), result.Token)
}

func TestServer_ListPaging(t *testing.T) {
	srv := NewHTTPTestServer(WithProducts(25))
	defer srv.Close()
	cli := client.New(srv.URL)
	ctx := login(t, cli)

	var testCases = []struct {
		description string
		query       url.Values
		expectKeys  []int
		expectLast  int
	}{
		{description: "first page", query: url.Values{"page": {"1"}, "per_page": {"10"}}, expectKeys: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, expectLast: 3},
		{description: "last page", query: url.Values{"page": {"3"}, "per_page": {"10"}}, expectKeys: []int{21, 22, 23, 24, 25}, expectLast: 3},
		{description: "beyond last page", query: url.Values{"page": {"9"}, "per_page": {"10"}}, expectKeys: []int{}, expectLast: 3},
		{description: "search", query: url.Values{"search": {"product 2"}, "per_page": {"10"}}, expectKeys: []int{2, 20, 21, 22, 23, 24, 25}, expectLast: 1},
	}
	for _, testCase := range testCases {
		page, err := client.Get[schema.Page[schema.Product]](ctx, cli, "products", testCase.query)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectKeys, schema.Keys(page.Data), testCase.description)
		assert.Equal(t, testCase.expectLast, page.LastPage, testCase.description)
	}
	assert.Equal(t, len(testCases), srv.API.ListCalls("products"))
}

func TestServer_Unauthenticated(t *testing.T) {
	srv := NewHTTPTestServer()
	defer srv.Close()
	cli := client.New(srv.URL)

	_, err := client.Get[schema.Page[schema.Product]](context.Background(), cli, "products", nil)
	assert.True(t, client.IsUnauthorized(err))

	ctx := login(t, cli)
	_, err = client.Get[schema.Page[schema.Product]](ctx, cli, "products", nil)
	require.NoError(t, err)

	srv.API.Revoke()
	_, err = client.Get[schema.Page[schema.Product]](ctx, cli, "products", nil)
	assert.True(t, client.IsUnauthorized(err))

	_, err = client.Post[schema.LoginResult](context.Background(), cli, "login", &schema.Credentials{Email: DefaultEmail, Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, client.StatusOf(err))
}

func TestServer_BareArrayAndCrud(t *testing.T) {
	srv := NewHTTPTestServer(WithBareArray("contractors"))
	defer srv.Close()
	cli := client.New(srv.URL)
	ctx := login(t, cli)

	contractors, err := client.Get[[]schema.Contractor](ctx, cli, "contractors", url.Values{"per_page": {"100"}})
	require.NoError(t, err)
	assert.Len(t, *contractors, 10)

	created, err := client.Post[schema.Contractor](ctx, cli, "contractors", &schema.Contractor{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 11, created.Id)

	updated, err := client.Put[schema.Contractor](ctx, cli, "contractors/11", map[string]string{"phone": "123"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "123", updated.Phone)

	_, err = client.Delete[schema.Contractor](ctx, cli, "contractors/11")
	require.NoError(t, err)
	_, err = client.Get[schema.Contractor](ctx, cli, "contractors/11", nil)
	assert.True(t, client.IsNotFound(err))
}

func TestServer_Roles(t *testing.T) {
	srv := NewHTTPTestServer()
	defer srv.Close()
	cli := client.New(srv.URL)
	ctx := login(t, cli)

	user, err := client.Post[schema.User](ctx, cli, "users/2/roles", &schema.RoleAssignment{Role: "auditor"})
	require.NoError(t, err)
	assert.Len(t, user.Roles, 2)

	user, err = client.Delete[schema.User](ctx, cli, "users/2/roles/manager")
	require.NoError(t, err)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, "auditor", user.Roles[0].Name)
}

func TestServer_OrderTotal(t *testing.T) {
	srv := NewHTTPTestServer()
	defer srv.Close()
	cli := client.New(srv.URL)
	ctx := login(t, cli)

	order, err := client.Post[schema.Order](ctx, cli, "orders", &schema.OrderInput{
		ContractorId: 2,
		Items: []schema.OrderLine{
			{ProductId: 1, Quantity: 3, Price: decimal.NewFromInt(5)},
			{ProductId: 2, Quantity: 1, Price: decimal.RequireFromString("2.50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, order.Id)
	assert.Equal(t, "17.5", order.Total.String())
}
