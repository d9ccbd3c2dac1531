package main

import "github.com/ValentinKolb/dAttr/cmd"

func main() {
	cmd.Execute()
}
