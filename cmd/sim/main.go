package main

// makefile runner
func main() {
	bindVar()
	executeSimulator()
}
