// Command policyctl is the terminal client for the policy service. It builds
// a backend from configuration (proxy or direct), drives the mutation
// coordinator and prints outcome notifications to stderr.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-policy-service/internal/backend"
	"github.com/spec-kit/staff-policy-service/internal/client"
	"github.com/spec-kit/staff-policy-service/internal/config"
	"github.com/spec-kit/staff-policy-service/internal/domain"
	"github.com/spec-kit/staff-policy-service/internal/observability"
	"github.com/spec-kit/staff-policy-service/internal/persistence"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	be, cleanup, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("build backend: %v", err)
	}
	defer cleanup()

	coord := client.NewCoordinator(client.CoordinatorConfig{
		Backend:  be,
		Notifier: client.NotifierFunc(printOutcome),
		Confirm:  promptConfirm,
		Logger:   logger,
	})

	if err := run(ctx, coord, flag.Args()); err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func buildBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (backend.Backend, func(), error) {
	deps := backend.Dependencies{
		AdminPassword: cfg.Auth.AdminPassword,
		Logger:        logger,
	}
	cleanup := func() {}

	if cfg.Backend.Mode == backend.ModeDirect {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		deps.Pool = pg.PoolHandle()
		cleanup = pg.Close
	}

	be, err := backend.New(cfg.Backend, deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return be, cleanup, nil
}

func run(ctx context.Context, coord *client.Coordinator, args []string) error {
	switch args[0] {
	case "list":
		if err := coord.ReconcileFromBackend(ctx); err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(coord.Snapshot())

	case "submit":
		// policyctl submit <staff-id> <staff-name> <policy-no> [premium] [maturity]
		if len(args) < 4 {
			return fmt.Errorf("usage: submit <staff-id> <staff-name> <policy-no> [premium] [maturity]")
		}
		sub, err := coord.SubmitPolicies(ctx, client.StaffInfo{ID: args[1], Name: args[2]}, []client.PolicyInput{{
			PolicyNo:      args[3],
			PremiumAmount: arg(args, 4),
			MaturityDate:  arg(args, 5),
		}})
		if err != nil {
			return err
		}
		printOutcome(<-sub.Done)
		return nil

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: delete <record-id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid record id %q", args[1])
		}
		if err := coord.ReconcileFromBackend(ctx); err != nil {
			return err
		}
		return coord.DeletePolicy(ctx, id)

	case "wipe":
		fmt.Fprint(os.Stderr, "admin password: ")
		password, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		return coord.BulkDelete(ctx, strings.TrimSpace(password))

	case "backup":
		if len(args) < 2 {
			return fmt.Errorf("usage: backup <file>")
		}
		b, err := coord.Backup(ctx)
		if err != nil {
			return err
		}
		encoded, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(args[1], encoded, 0o644)

	case "restore":
		if len(args) < 2 {
			return fmt.Errorf("usage: restore <file>")
		}
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		var b domain.Backup
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("parse backup file: %w", err)
		}
		return coord.Restore(ctx, &b)

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printOutcome(o client.Outcome) {
	label := map[client.OutcomeKind]string{
		client.OutcomeSuccess:           "ok",
		client.OutcomeValidationFailed:  "invalid",
		client.OutcomeRemoteFailure:     "failed",
		client.OutcomeInvalidCredential: "unauthorized",
	}[o.Kind]
	fmt.Fprintf(os.Stderr, "[%s] %s\n", label, o.Message)
}

func promptConfirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: policyctl <command> [args]

commands:
  list                                              print all records grouped by staff
  submit <staff-id> <staff-name> <policy-no> [premium] [maturity]
  delete <record-id>                                delete one record (asks first)
  wipe                                              delete everything (asks for the admin password)
  backup <file>                                     write a backup file
  restore <file>                                    restore from a backup file
`)
}
