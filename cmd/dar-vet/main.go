package main

import "github.com/oshokin/dar-publisher/cmd/dar-vet/cmd"

func main() {
	cmd.Execute()
}
