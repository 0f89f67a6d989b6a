package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/walletbridge/internal/buildinfo"
	"github.com/dmitrijs2005/walletbridge/internal/config"
	"github.com/dmitrijs2005/walletbridge/internal/server"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())

}
