package main

import "github.com/mvp-joe/ais/internal/cli"

func main() {
	cli.Execute()
}
