package main

import "porridge/internal/cli"

func main() {
	cli.Execute()
}
