package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/granddizzy/orders/cli"
	"github.com/jessevdk/go-flags"
)

func main() {
	_ = flag.Set("logtostderr", "true")
	_ = flag.Set("stderrthreshold", "INFO")
	if level := os.Getenv("ORDERS_V"); level != "" {
		_ = flag.Set("v", level)
	}
	defer glog.Flush()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cli.Run(ctx, os.Args[1:], os.Stdout); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}
