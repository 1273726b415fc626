package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/dberezin/securenotes/internal/client/api"
	"github.com/dberezin/securenotes/internal/client/cli"
)

func main() {

	serverAddr := flag.String("a", "http://localhost:8080", "server base URL")
	flag.Parse()

	app := cli.NewApp(api.NewClient(*serverAddr), os.Stdin, os.Stdout)

	if err := app.Run(context.Background()); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
