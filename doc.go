// Package orders is the client-side synchronization layer of an
// order-management REST API.
//
// NewApp builds an explicit application container: the API client with its
// bearer-token transport, the auth session manager, one resource store per
// API resource, a bounded scroll window over the product catalog and the
// cart ledger. Callers read state snapshots from the stores and drive the
// window with boundary signals; Close tears everything down.
//
// Example:
//
//	app, _ := orders.NewApp(ctx, &orders.Options{APIURL: "http://localhost:8000/api"})
//	defer app.Close()
//	_, _ = app.Auth.Login(ctx, schema.Credentials{Email: email, Password: password})
//	_ = app.Catalog.Mount(ctx)
//	for _, product := range app.Catalog.State().Items { ... }
package orders
