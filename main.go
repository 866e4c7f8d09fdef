package main

import "github.com/alexiusacademia/gorecon/cmd"

func main() {
	cmd.Execute()
}
