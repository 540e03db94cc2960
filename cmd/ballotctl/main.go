// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command ballotctl runs operator tasks against the ballotbox database.
//
//	ballotctl [-t sqlite|postgres] [-d url] seed-admin -civic-id ID -email EMAIL -name NAME
//	ballotctl results ELECTION_ID
//	ballotctl reconcile
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/services"
	"github.com/danielhkuo/ballotbox/store"
)

// errInconsistent makes reconcile exit non-zero when the ledger disagrees
var errInconsistent = errors.New("ledger inconsistent")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errInconsistent) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ballotctl", flag.ContinueOnError)
	dbType := fs.String("t", envOr("DATABASE_TYPE", cliparse.DatabaseSQLite), "Database type (sqlite or postgres)")
	dbURL := fs.String("d", os.Getenv("DATABASE_URL"), "Database URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if fs.NArg() == 0 {
		return errors.New("command required: seed-admin, results or reconcile")
	}

	conn, err := db.Open(ctx, *dbType, *dbURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.CreateSchema(ctx, conn); err != nil {
		return err
	}

	st := store.NewStore(conn)
	clock := services.SystemClock{}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "seed-admin":
		return seedAdmin(ctx, services.NewAccountService(st, nil, clock), rest, out)
	case "results":
		if len(rest) != 1 {
			return errors.New("usage: ballotctl results ELECTION_ID")
		}
		results, err := services.NewTallyService(st, clock, nil).Results(ctx, rest[0], models.RoleAdmin)
		if err != nil {
			return err
		}
		renderResults(out, results)
		return nil
	case "reconcile":
		report, err := services.NewVoteService(st, clock).Reconcile(ctx)
		if err != nil {
			return err
		}
		renderReport(out, report)
		if !report.Consistent {
			return errInconsistent
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func seedAdmin(ctx context.Context, accounts *services.AccountService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	var req models.RegisterRequest
	fs.StringVar(&req.CivicID, "civic-id", "", "12-digit civic identifier")
	fs.StringVar(&req.Email, "email", "", "Email address")
	fs.StringVar(&req.Name, "name", "Administrator", "Display name")
	fs.StringVar(&req.Password, "password", os.Getenv("ADMIN_PASSWORD"), "Password (prefer ADMIN_PASSWORD env)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, created, err := accounts.SeedAdmin(ctx, req)
	if err != nil {
		return err
	}
	if !created {
		color.New(color.FgYellow).Fprintf(out, "account %s already exists (role %s), nothing to do\n", a.CivicID, a.Role)
		return nil
	}
	color.New(color.FgGreen).Fprintf(out, "created admin %s (%s)\n", a.CivicID, a.ID)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
