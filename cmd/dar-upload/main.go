package main

import "github.com/oshokin/dar-publisher/cmd/dar-upload/cmd"

func main() {
	cmd.Execute()
}
