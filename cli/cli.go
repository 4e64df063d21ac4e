// Package cli implements the orders command line client.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/golang/glog"
	"github.com/granddizzy/orders"
	"github.com/granddizzy/orders/mock"
	"github.com/granddizzy/orders/resource"
	"github.com/granddizzy/orders/schema"
	"github.com/granddizzy/orders/scroll"
	"github.com/jessevdk/go-flags"
)

// Run parses args and runs the selected command, writing results to out.
func Run(ctx context.Context, args []string, out io.Writer) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	if options.ConfigURL != "" {
		loaded, err := orders.LoadOptions(ctx, options.ConfigURL)
		if err != nil {
			return err
		}
		merge(&options.Options, loaded)
	}
	if parser.Active == nil {
		return fmt.Errorf("command is required")
	}
	if parser.Active.Name == "mock" {
		return serveMock(&options.Mock)
	}
	observer := scroll.NewManualObserver()
	app, err := orders.NewApp(ctx, &options.Options, orders.WithObserver(observer))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			glog.Warningf("[cli] close: %v\n", err)
		}
	}()
	switch parser.Active.Name {
	case "login":
		session, err := app.Auth.Login(ctx, schema.Credentials{Email: options.Login.Email, Password: options.Login.Password})
		if err != nil {
			return err
		}
		return printJSON(out, session.User)
	case "logout":
		return app.Auth.Logout(ctx)
	case "whoami":
		session := app.Auth.Session()
		if !session.Valid() {
			return fmt.Errorf("not logged in")
		}
		return printJSON(out, session.User)
	case "list":
		return list(ctx, app, &options.List, out)
	case "browse":
		return browse(ctx, app, observer, &options.Browse, out)
	}
	return fmt.Errorf("unsupported command: %v", parser.Active.Name)
}

// merge fills options unset on the command line from the config file.
func merge(dest *orders.Options, loaded *orders.Options) {
	if dest.APIURL == "" {
		dest.APIURL = loaded.APIURL
	}
	if dest.SessionURL == "" {
		dest.SessionURL = loaded.SessionURL
	}
	if dest.PageSize == 0 {
		dest.PageSize = loaded.PageSize
	}
	if dest.MaxPages == 0 {
		dest.MaxPages = loaded.MaxPages
	}
	if dest.SearchDelayMs == 0 {
		dest.SearchDelayMs = loaded.SearchDelayMs
	}
	if dest.TimeoutMs == 0 {
		dest.TimeoutMs = loaded.TimeoutMs
	}
	dest.Tracing = dest.Tracing || loaded.Tracing
	dest.TraceStdout = dest.TraceStdout || loaded.TraceStdout
}

func list(ctx context.Context, app *orders.App, cmd *ListCommand, out io.Writer) error {
	switch cmd.Args.Resource {
	case "products":
		return listPage(ctx, app.Products, cmd, out)
	case "orders":
		return listPage(ctx, app.Orders, cmd, out)
	case "contractors":
		return listPage(ctx, app.Contractors, cmd, out)
	case "users":
		return listPage(ctx, app.Users, cmd, out)
	}
	return fmt.Errorf("unknown resource: %v", cmd.Args.Resource)
}

func listPage[T schema.Entity](ctx context.Context, store *resource.Store[T], cmd *ListCommand, out io.Writer) error {
	store.SetSearch(cmd.Search)
	if err := store.Fetch(ctx, cmd.Page); err != nil {
		return err
	}
	state := store.State()
	if err := printJSON(out, state.Items); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "page %d of %d\n", state.CurrentPage, state.LastPage)
	return err
}

// browse drives the catalog window the way a viewport would: it reaches the
// tail boundary cmd.Pages times, then the head boundary cmd.Back times.
func browse(ctx context.Context, app *orders.App, observer *scroll.ManualObserver, cmd *BrowseCommand, out io.Writer) error {
	window := app.Catalog
	if err := window.SetSearch(ctx, cmd.Search); err != nil {
		return err
	}
	if err := window.Mount(ctx); err != nil {
		return err
	}
	report := func(label string) error {
		state := window.State()
		_, err := fmt.Fprintf(out, "%s: pages %d-%d, %d items, ids %v, more prev %v, more next %v\n",
			label, state.FirstPage(), state.LastLoadedPage(), len(state.Items), schema.Keys(state.Items), state.HasMorePrev, state.HasMoreNext)
		return err
	}
	if err := report("mount"); err != nil {
		return err
	}
	reach := func(label string, count int, boundary func(state resource.State[schema.Product]) (schema.Product, bool)) error {
		for i := 0; i < count; i++ {
			item, ok := boundary(window.State())
			if !ok || observer.Trigger(item.Key()) == 0 {
				return nil
			}
			if state := window.State(); state.Error != "" {
				return fmt.Errorf("%s", state.Error)
			}
			if err := report(label); err != nil {
				return err
			}
		}
		return nil
	}
	if err := reach("next", cmd.Pages, func(state resource.State[schema.Product]) (schema.Product, bool) { return state.Tail() }); err != nil {
		return err
	}
	return reach("previous", cmd.Back, func(state resource.State[schema.Product]) (schema.Product, bool) { return state.Head() })
}

func serveMock(cmd *MockCommand) error {
	srv := mock.New(mock.WithProducts(cmd.Products), mock.WithCors(mock.DefaultCors()))
	glog.Infof("[mock] serving %s/api (login %s / %s)\n", cmd.Address, mock.DefaultEmail, mock.DefaultPassword)
	return http.ListenAndServe(cmd.Address, srv.Handler())
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
