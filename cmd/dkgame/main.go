package main

import "github.com/mcoot/demonkingdom/internal/cli"

func main() {
	cli.Execute()
}
