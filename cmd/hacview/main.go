package main

import "hacview-backend/cmd/hacview/cmd"

func main() {
	cmd.Execute()
}
