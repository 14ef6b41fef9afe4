package main

import "github.com/mcoot/wagerpong/internal/cli"

func main() {
	cli.Execute()
}
