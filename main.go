package main

import "go-progression/cmd"

func main() {
	cmd.Execute()
}
