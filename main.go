package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nuclio/errors"
)

func main() {
	// Cancels pending decompress jobs; the stream client handles signals itself
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCommandeer().Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errors.GetErrorStackString(err, 10))
		os.Exit(1)
	}
}
