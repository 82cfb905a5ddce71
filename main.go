package main

import "github.com/KaramelBytes/datakit-cli/cmd"

func main() {
	cmd.Execute()
}
