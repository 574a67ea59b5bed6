package main

import "github.com/emiliopalmerini/despertar/internal/cli"

func main() {
	cli.Execute()
}
