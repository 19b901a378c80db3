package main

import (
	"github.com/botornot-chat/botornot/internal/cli"
)

func main() {
	cli.Execute()
}
