package main

import "github.com/mustafakh994/forms-management/cmd"

func main() {
	cmd.Execute()
}
