package main

import (
	"log"
	"os"

	"github.com/skillorbit/skillorbit/app"
)

func main() {
	application, err := app.NewApp().WithAutoConfig().Build()
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
