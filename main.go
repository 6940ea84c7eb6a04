package main

import "github.com/5uh417/blog/cmd"

func main() {
	cmd.Execute()
}
