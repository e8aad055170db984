package main

import "patstat/cpctree/cmd"

func main() {
	cmd.Execute()
}
