package main

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"os"
	"time"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/models"
	"github.com/joho/godotenv"
)

// setadmin grants the admin role to an existing user, identified by the email
// they signed up with.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <email>\n", os.Args[0])
		os.Exit(1)
	}
	addr, err := mail.ParseAddress(os.Args[1])
	if err != nil {
		log.Fatalf("invalid email %q: %v", os.Args[1], err)
	}
	email := addr.Address

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	database, err := db.Open(dsn)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = database.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := db.GetUserByEmail(ctx, database, email)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	if user == nil {
		log.Fatalf("user %s not found; make sure they have signed up in the app first", email)
	}
	if user.Role == models.RoleAdmin {
		fmt.Printf("%s is already an admin\n", email)
		return
	}

	if err := db.SetUserRole(ctx, database, user.ID, models.RoleAdmin); err != nil {
		log.Fatalf("role update failed: %v", err)
	}
	fmt.Printf("%s is now an admin; they must sign out and back in for the change to take effect\n", email)
}
