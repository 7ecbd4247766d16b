package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
