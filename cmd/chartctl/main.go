package main

import "AstroChart/internal/cli"

func main() {
	cli.Execute()
}
