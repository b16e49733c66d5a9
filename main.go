package main

import "es-diff/cmd"

func main() {
	cmd.Execute()
}
