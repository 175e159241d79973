// Command tokengen mints an operator access token for the payroll API.
// Intended for local development and operational scripts; production
// deployments issue tokens from the identity provider.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/paylane-hq/payroll-backend-go/internal/config"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "operator", "subject user id for the token")
	role := flag.String("role", "payroll-admin", "role claim")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := jwtService.GenerateAccessToken(*userID, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires:", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
