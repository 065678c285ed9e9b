package main

import "github.com/nfrund/regform/cmd/regform-cli/cmd"

func main() {
	cmd.Execute()
}
