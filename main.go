package main

import "github.com/KaramelBytes/benford-cli/cmd"

func main() {
	cmd.Execute()
}
