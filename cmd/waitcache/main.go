package main

import (
	"context"
	"fmt"
	"os"

	"github.com/krisalay/waitcache/internal/command"
	"github.com/krisalay/waitcache/internal/config"
	mylog "github.com/krisalay/waitcache/internal/log"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := command.Run(context.Background(), cfg, os.Stdout, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}
