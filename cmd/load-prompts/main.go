package main

import (
	"flag"
	"log"

	"sketch-stars/internal/config"
	"sketch-stars/internal/db"
)

func main() {
	filePath := flag.String("file", "prompts.csv", "path to prompts csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	loaded, err := db.LoadPromptPool(conn, *filePath)
	if err != nil {
		log.Fatalf("failed to load prompts: %v", err)
	}
	log.Printf("loaded %d prompts", loaded)
}
