package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/walletbridge/internal/cli"
	"github.com/dmitrijs2005/walletbridge/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitUsage)
	}

	app, err := cli.NewApp(cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitUsage)
	}

	os.Exit(app.Run(context.Background(), os.Args[1:]))
}
