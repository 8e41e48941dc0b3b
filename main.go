package main

import "github.com/user/verity-adk/cmd"

func main() {
	cmd.Execute()
}
