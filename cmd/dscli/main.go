// Command dscli is an interactive terminal chat client for the DeepSeek API.
package main

import "github.com/coodar/dscli/internal/commands"

func main() {
	commands.Execute()
}
