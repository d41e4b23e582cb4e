package main

import "github.com/wentf9/ftpmirror/cmd"

func main() {
	cmd.Execute()
}
