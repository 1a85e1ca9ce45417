package main

import "os"

// makefile runner
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
