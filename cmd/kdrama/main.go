// Command kdrama is the terminal front end of the Korean dramas dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/kdrama/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
