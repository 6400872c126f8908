package main

import "github.com/BenjaminLTakaki/coverart-api/cmd"

func main() {
	cmd.Execute()
}
