package main

import "taskmaster.app/taskmaster/cmd"

func main() {
	cmd.Execute()
}
