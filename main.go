package main

import "github.com/jvrabec/facecam/cmd"

func main() {
	cmd.Execute()
}
