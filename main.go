package main

import "github.com/saadjs/serenitree-cli/cmd/serenitree"

func main() {
	serenitree.Execute()
}
