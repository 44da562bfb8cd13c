package main

import "github.com/3-lines-studio/reactpack/internal/command"

func main() {
	command.Execute()
}
