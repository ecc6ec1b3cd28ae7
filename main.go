package main

import "github.com/psacc/lumberjack/cmd"

func main() {
	cmd.Execute()
}
