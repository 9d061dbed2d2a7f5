package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ferdiebergado/roomkit/internal/app"
	"github.com/ferdiebergado/roomkit/internal/auth"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var (
		params auth.ProvisionParams
		perms  string
	)
	flag.StringVar(&params.Email, "email", "", "email address of the account")
	flag.StringVar(&params.Password, "password", "", "initial password")
	flag.StringVar(&params.FirstName, "first", "", "first name")
	flag.StringVar(&params.LastName, "last", "", "last name")
	flag.BoolVar(&params.Verified, "verified", true, "mark the email address as verified")
	flag.BoolVar(&params.Staff, "staff", false, "grant staff status")
	flag.BoolVar(&params.Superuser, "superuser", false, "grant every capability")
	flag.StringVar(&perms, "perm", "", "comma separated permissions to grant, e.g. host,view_users")
	flag.Parse()

	if params.Email == "" || params.Password == "" {
		flag.Usage()
		os.Exit(2)
	}

	for p := range strings.SplitSeq(perms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params.Permissions = append(params.Permissions, p)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u, err := app.Provision(ctx, params)
	if err != nil {
		slog.Error("Provisioning failed.", "reason", err)
		stop()
		os.Exit(1)
	}

	fmt.Printf("Created %s (%s).\n", u.Username, u.Email)
}
