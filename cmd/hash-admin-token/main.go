package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/playmatatu/billiards/internal/admin"
)

// Prints the bcrypt hash of ADMIN_TOKEN (or the first argument) for use as
// ADMIN_TOKEN_HASH on the server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	token := os.Getenv("ADMIN_TOKEN")
	if len(os.Args) > 1 {
		token = os.Args[1]
	}
	if token == "" {
		log.Fatal("usage: hash-admin-token <token> (or set ADMIN_TOKEN)")
	}

	hash, err := admin.HashToken(token)
	if err != nil {
		log.Fatalf("Failed to hash admin token: %v", err)
	}

	fmt.Printf("ADMIN_TOKEN_HASH=%s\n", hash)
}
