package main

import "github.com/josephlewis42/bfkit/cmd"

func main() {
	cmd.Execute()
}
