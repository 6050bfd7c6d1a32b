package main

import "github.com/neu-balayan/pageantscore/internal/cli"

func main() {
	cli.Execute()
}
