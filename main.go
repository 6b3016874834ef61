package main

import "github.com/iburimskiy/particle-field/cmd"

func main() {
	cmd.Execute()
}
