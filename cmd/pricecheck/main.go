package main

import (
	"context"
	"os"
	"time"

	"github.com/niksmo/pricecheck/config"
	"github.com/niksmo/pricecheck/internal/app"
	"github.com/niksmo/pricecheck/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.MustLoad(os.Args[1:])
	cfg.Print()

	pricecheck := app.New(cfg)

	pricecheck.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	pricecheck.Close(ctx)
}
