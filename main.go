package main

import "github.com/sjzsdu/arbor/cmd"

func main() {
	cmd.Execute()
}
