package main

import "github.com/pfrederiksen/poker-board/internal/cli"

func main() {
	cli.Execute()
}
