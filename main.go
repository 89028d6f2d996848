package main

import "price-tracker/cmd"

func main() {
	cmd.Execute()
}
