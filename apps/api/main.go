package main

// TODO: persist to a real database once the in-memory store outgrows a single school.
func main() {
	startWithDig()
}
