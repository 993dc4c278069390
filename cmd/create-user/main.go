package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"legalcase_app_go/config"
	"legalcase_app_go/db"
	"legalcase_app_go/models"
	"legalcase_app_go/services"

	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Case{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	// Get user details
	fmt.Println("=== Create New User ===")
	fmt.Println()

	fmt.Print("Name: ")
	name, _ := reader.ReadString('\n')

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')

	fmt.Printf("Role (%s/%s/%s) [%s]: ", models.RoleAdmin, models.RoleLawyer, models.RoleStaff, models.RoleLawyer)
	role, _ := reader.ReadString('\n')
	role = strings.ToLower(strings.TrimSpace(role))

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println() // New line after password input

	user, err := services.CreateUser(context.Background(), db.DB, name, email, string(passwordBytes), role)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			color.Red("✗ %s", verr.Error())
			os.Exit(1)
		case errors.Is(err, services.ErrUserExists):
			color.Red("✗ User with email %s already exists", strings.TrimSpace(email))
			os.Exit(1)
		}
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println()
	color.Green("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Name: %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role: %s\n", user.Role)
	fmt.Println()
	fmt.Printf("Send requests with the header %s: %s\n", "X-User-ID", user.ID)
}
