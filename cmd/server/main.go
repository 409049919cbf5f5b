package main

import (
	"log"

	"github.com/joho/godotenv"

	"procurement/internal/app"
)

func main() {
	// a missing .env is fine, config falls back to the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	app, err := app.NewApp()
	if err != nil {
		log.Fatal(err)
	}

	app.Run()
}
