package main

import "github.com/ValentinKolb/esclient/cmd"

func main() {
	cmd.Execute()
}
