package main

import "rpgtrans/internal/cli"

func main() {
	cli.Execute()
}
