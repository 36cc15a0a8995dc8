package main

import "martianoff/effectful/cmd/effectful/commands"

func main() {
	commands.Execute()
}
