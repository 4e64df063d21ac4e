package orders

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"
	"github.com/granddizzy/orders/cart"
	"github.com/granddizzy/orders/client"
	"github.com/granddizzy/orders/client/auth"
	"github.com/granddizzy/orders/client/auth/store"
	"github.com/granddizzy/orders/debounce"
	"github.com/granddizzy/orders/internal/telemetry"
	"github.com/granddizzy/orders/resource"
	"github.com/granddizzy/orders/schema"
	"github.com/granddizzy/orders/scroll"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by operations of a closed App.
var ErrClosed = errors.New("app is closed")

// App is the application state container.
type App struct {
	Options *Options
	Client  *client.Client
	Auth    *auth.Manager

	Products    *resource.Store[schema.Product]
	Orders      *resource.Store[schema.Order]
	Contractors *resource.Store[schema.Contractor]
	Users       *resource.Store[schema.User]
	Roles       *resource.Users

	// Catalog is the infinite scroll window over Products.
	Catalog *scroll.Window[schema.Product]
	Cart    *cart.Ledger

	ctx         context.Context
	cancel      context.CancelFunc
	shutdown    telemetry.Shutdown
	unsubscribe func()
	searchClock debounce.Clock
	closeOnce   sync.Once
}

// AppOption configures NewApp.
type AppOption func(a *appOptions)

type appOptions struct {
	observer scroll.Observer
	sessions store.Store
	clock    debounce.Clock
}

// WithObserver sets the boundary observer of the catalog window.
func WithObserver(observer scroll.Observer) AppOption {
	return func(a *appOptions) {
		a.observer = observer
	}
}

// WithSessionStore sets the session store, overriding Options.SessionURL.
func WithSessionStore(sessions store.Store) AppOption {
	return func(a *appOptions) {
		a.sessions = sessions
	}
}

// WithClock sets the clock of the catalog search binding.
func WithClock(clock debounce.Clock) AppOption {
	return func(a *appOptions) {
		a.clock = clock
	}
}

// NewApp builds the container and restores a persisted session.
func NewApp(ctx context.Context, options *Options, opts ...AppOption) (*App, error) {
	if options == nil {
		options = &Options{}
	}
	options.Init()
	settings := &appOptions{}
	for _, opt := range opts {
		opt(settings)
	}
	if settings.sessions == nil {
		if options.SessionURL != "" {
			settings.sessions = store.NewFileStore(options.SessionURL)
		} else {
			settings.sessions = store.NewMemoryStore()
		}
	}
	if settings.observer == nil {
		settings.observer = scroll.NewManualObserver()
	}

	ret := &App{Options: options, Cart: cart.New()}
	ret.ctx, ret.cancel = context.WithCancel(ctx)
	if options.Tracing {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{Stdout: options.TraceStdout})
		if err != nil {
			ret.cancel()
			return nil, err
		}
		ret.shutdown = shutdown
	}

	ret.Auth = auth.New(auth.WithStore(settings.sessions))
	ret.Client = client.New(options.APIURL,
		client.WithTokenSource(ret.Auth),
		client.WithTimeout(options.Timeout()),
		client.WithTracing(options.Tracing))
	ret.Auth.Attach(ret.Client)

	config := resource.Config{PageSize: options.PageSize, MaxPages: options.MaxPages, Token: options.Token}
	ret.Products = resource.New[schema.Product]("products", resource.NewEndpoint[schema.Product](ret.Client, "products"), config)
	ret.Orders = resource.New[schema.Order]("orders", resource.NewEndpoint[schema.Order](ret.Client, "orders"), config)
	ret.Contractors = resource.New[schema.Contractor]("contractors", resource.NewEndpoint[schema.Contractor](ret.Client, "contractors"), config)
	ret.Roles = resource.NewUsers(ret.Client)
	ret.Users = resource.New[schema.User]("users", ret.Roles, config)
	ret.Catalog = scroll.New[schema.Product](ret.Products, nil, settings.observer)
	ret.unsubscribe = ret.Auth.Subscribe(ret.onSession)

	ret.searchClock = settings.clock
	if err := ret.Auth.Restore(ctx); err != nil {
		glog.Warningf("[app] failed to restore session: %v\n", err)
	}
	return ret, nil
}

// Context returns the app context, canceled by Close.
func (a *App) Context() context.Context {
	return a.ctx
}

// Search binds a debounced search input to the catalog window.
func (a *App) Search() *debounce.Input {
	opts := []debounce.Option{debounce.WithDelay(a.Options.SearchDelay())}
	if a.searchClock != nil {
		opts = append(opts, debounce.WithClock(a.searchClock))
	}
	return a.Catalog.BindSearch(opts...)
}

// Refresh reloads the first page of every resource concurrently.
func (a *App) Refresh(ctx context.Context) error {
	if a.ctx.Err() != nil {
		return ErrClosed
	}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return a.Catalog.Reload(ctx) })
	group.Go(func() error { return a.Orders.Fetch(ctx, 1) })
	group.Go(func() error { return a.Contractors.Fetch(ctx, 1) })
	if session := a.Auth.Session(); session != nil && session.User.HasRole("admin") {
		group.Go(func() error { return a.Users.Fetch(ctx, 1) })
	}
	return group.Wait()
}

// PlaceOrder creates an order from the cart and empties it.
func (a *App) PlaceOrder(ctx context.Context, contractorId int, comment string) (*schema.Order, error) {
	input, err := a.Cart.Order(contractorId, comment)
	if err != nil {
		return nil, err
	}
	order, err := a.Orders.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	a.Cart.Clear()
	return order, nil
}

// GrantRole adds role to a user and refreshes it in the users store.
func (a *App) GrantRole(ctx context.Context, userId int, role string) (*schema.User, error) {
	user, err := a.Roles.AddRole(ctx, userId, role)
	return a.savedUser(user, err)
}

// RevokeRole removes role from a user and refreshes it in the users store.
func (a *App) RevokeRole(ctx context.Context, userId int, role string) (*schema.User, error) {
	user, err := a.Roles.RemoveRole(ctx, userId, role)
	return a.savedUser(user, err)
}

func (a *App) savedUser(user *schema.User, err error) (*schema.User, error) {
	if err != nil {
		a.Users.Dispatch(resource.Failed{Err: err.Error()})
		return nil, err
	}
	if user != nil {
		a.Users.Save(*user)
	}
	return user, nil
}

// onSession drops all resource state once the session ends.
func (a *App) onSession(session *auth.Session) {
	if session != nil {
		return
	}
	a.Products.Clear()
	a.Orders.Clear()
	a.Contractors.Clear()
	a.Users.Clear()
	a.Cart.Clear()
}

// Close unmounts the catalog, detaches the auth manager and flushes traces.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.Catalog.Unmount()
		a.unsubscribe()
		a.Auth.Close()
		a.cancel()
		if a.shutdown != nil {
			err = a.shutdown(context.Background())
		}
	})
	return err
}
