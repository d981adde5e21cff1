package main

import (
	"log"
	"os"

	"agar/server"
)

func main() {
	if err := server.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
