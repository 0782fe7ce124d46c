package main

import "github.com/LENAX/task-order/pkg/cli/cmd"

func main() {
	cmd.Execute()
}
