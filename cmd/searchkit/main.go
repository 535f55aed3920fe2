package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncobase/searchkit/cmd/searchkit/commands"

	_ "github.com/ncobase/searchkit/data/elasticsearch"
	_ "github.com/ncobase/searchkit/data/opensearch"
	_ "github.com/ncobase/searchkit/logging/hooks/elasticsearch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
