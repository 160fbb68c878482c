package main

import "github.com/mj1618/tilewm/cmd"

func main() {
	cmd.Execute()
}
