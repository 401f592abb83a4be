package main

import "github.com/klytics/cellkit/cmd"

func main() {
	cmd.Execute()
}
