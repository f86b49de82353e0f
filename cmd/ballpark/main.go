// Command ballpark plays and serves baseball games against the computer.
package main

func main() {
	Execute()
}
