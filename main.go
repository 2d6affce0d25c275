package main

import "github.com/cortivus/chat-api/cmd"

func main() {
	cmd.Execute()
}
