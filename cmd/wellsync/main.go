package main

import "github.com/welldatalabs/wellsync/internal/cli"

func main() {
	cli.Execute()
}
