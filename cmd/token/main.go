// Command token issues an access token for local testing of the payroll API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sentryforce/guard-payroll/internal/config"
	"github.com/sentryforce/guard-payroll/internal/domain/user"
	"github.com/sentryforce/guard-payroll/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id stamped as the actor on payroll changes")
	role := flag.String("role", string(user.RoleManager), "owner, manager or viewer")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	svc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, _, err := svc.GenerateAccessToken(*userID, user.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
