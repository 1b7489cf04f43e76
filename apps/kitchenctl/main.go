package main

import "github.com/smallbiznis/pizzaria/internal/cli"

func main() {
	cli.Execute()
}
