package main

import "github.com/pfrederiksen/lunch-line/internal/cli"

func main() {
	cli.Execute()
}
