package main

import "github.com/broadside-press/broadside/cmd/broadside/cmd"

func main() {
	cmd.Execute()
}
