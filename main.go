package main

import "github.com/mj1618/menulister/cmd"

func main() {
	cmd.Execute()
}
