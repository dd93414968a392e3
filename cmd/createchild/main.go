package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Parse command line flags
	var (
		parentUUID = flag.String("parent-uuid", "", "Parent reference")
		name       = flag.String("name", "Test Child", "Child name")
		age        = flag.Int("age", 8, "Child age")
		username   = flag.String("username", "testchild", "Login username")
		password   = flag.String("password", "password123", "Login password")
		dsn        = flag.String("dsn", "host=localhost port=5432 user=saathi password=saathi dbname=saathi sslmode=disable", "Postgres connection string")
	)
	flag.Parse()

	if *parentUUID == "" {
		log.Fatal("-parent-uuid is required")
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", *dsn)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Generate password hash
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal("Failed to generate password hash:", err)
	}

	childID := uuid.New()
	ctx := context.Background()

	query := `
		INSERT INTO children (id, parent_uuid, name, age, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			name = EXCLUDED.name,
			age = EXCLUDED.age
		RETURNING id`

	var resultID uuid.UUID
	err = db.GetContext(ctx, &resultID, query,
		childID, *parentUUID, *name, *age, *username, string(hash), time.Now())

	if err != nil {
		log.Fatal("Failed to create child:", err)
	}

	if resultID == childID {
		fmt.Printf("Successfully created child:\n")
	} else {
		fmt.Printf("Successfully updated existing child:\n")
	}

	fmt.Printf("   Name: %s\n", *name)
	fmt.Printf("   Username: %s\n", *username)
	fmt.Printf("   Password: %s\n", *password)
	fmt.Printf("   ID: %s\n", resultID)
	fmt.Printf("\nYou can now log in with these credentials!\n")
}
