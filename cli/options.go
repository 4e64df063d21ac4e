package cli

import (
	"github.com/granddizzy/orders"
)

// Options are the command line options.
type Options struct {
	ConfigURL      string `short:"c" long:"config" description:"yaml config url"`
	orders.Options `group:"api"`

	Login  LoginCommand  `command:"login" description:"log in and persist the session"`
	Logout struct{}      `command:"logout" description:"drop the persisted session"`
	WhoAmI struct{}      `command:"whoami" description:"print the session user"`
	List   ListCommand   `command:"list" description:"print one page of a resource"`
	Browse BrowseCommand `command:"browse" description:"scroll the product catalog"`
	Mock   MockCommand   `command:"mock" description:"serve the mock API"`
}

// LoginCommand logs in.
type LoginCommand struct {
	Email    string `short:"e" long:"email" description:"account email" required:"true"`
	Password string `short:"p" long:"password" description:"account password" env:"ORDERS_PASSWORD"`
}

// ListCommand lists a resource page.
type ListCommand struct {
	Page   int    `long:"page" description:"page number" default:"1"`
	Search string `short:"q" long:"search" description:"search term"`
	Args   struct {
		Resource string `positional-arg-name:"resource" description:"products, orders, contractors or users"`
	} `positional-args:"yes" required:"yes"`
}

// BrowseCommand scrolls the product catalog.
type BrowseCommand struct {
	Pages  int    `long:"pages" description:"number of tail boundaries to reach" default:"3"`
	Back   int    `long:"back" description:"number of head boundaries to reach afterwards"`
	Search string `short:"q" long:"search" description:"search term"`
}

// MockCommand serves the mock API.
type MockCommand struct {
	Address  string `short:"a" long:"address" description:"listen address" default:"localhost:8000"`
	Products int    `long:"products" description:"number of seeded products" default:"60"`
}
