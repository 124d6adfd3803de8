package main

import (
	"log"

	"storeshard/cmd/storeshard/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
