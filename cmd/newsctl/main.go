package main

import (
	"fmt"
	"os"

	"github.com/SergeyParamoshkin/news/internal/cli"
	"github.com/SergeyParamoshkin/news/internal/config"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
