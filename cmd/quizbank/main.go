// Command quizbank runs the question backend and the command-line client.
package main

import "github.com/mesh-intelligence/quizbank/internal/cli"

func main() {
	cli.Execute()
}
