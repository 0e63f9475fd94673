package main

import "github.com/c0pper/data-driven-blog/cmd/gateway/commands"

func main() {
	commands.Execute()
}
