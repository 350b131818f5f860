package main

import (
	"context"
	"os"

	"github.com/iliyamo/talkmaster-dashboard/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:]))
}
