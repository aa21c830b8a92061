// Command seed-admin creates or promotes an ADMIN user and prints an
// access token for it.
//
//	seed-admin --email root@example.com --password 's3cret-pass' [--name Root]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iliyamo/cinema-seat-booking/internal/config"
	"github.com/iliyamo/cinema-seat-booking/internal/database"
	"github.com/iliyamo/cinema-seat-booking/internal/repository"
	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seed-admin:", err)
		os.Exit(1)
	}
}

func run() error {
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		return fmt.Errorf("--email and --password are required")
	}
	if err := utils.ValidatePassword(*password); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	u, err := repository.NewUserRepo(db).UpsertAdmin(ctx, *name, *email, *password, cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	tok, err := utils.NewAccessToken(cfg.JWTSecret, u, cfg.AccessTTLMin)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Printf("admin id=%d email=%s role=%s\n", u.ID, u.Email, u.Role)
	fmt.Printf("access token (expires %s):\n%s\n", tok.Exp.Format(time.RFC3339), tok.Token)
	return nil
}
