// Command arrfill runs the reconciliation server and talks to it.
package main

func main() {
	Execute()
}
