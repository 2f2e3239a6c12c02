package main

import "github.com/josephlewis42/vterm/cmd"

func main() {
	cmd.Execute()
}
