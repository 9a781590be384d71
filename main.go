package main

import "github.com/notargets/extfaces/cmd"

func main() {
	cmd.Execute()
}
