package main

import (
	"os"

	"github.com/sanity-news/sanity/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
