// Package cli implements the one-shot commands of statement-service. The
// serve command is handled by the binary itself.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/eaglebank/statement-service/internal/ingest"
	"github.com/eaglebank/statement-service/internal/models"
)

// ErrUsage is returned for unknown commands and bad arguments.
var ErrUsage = errors.New("invalid usage")

type Service interface {
	FindTransaction(ctx context.Context, id string) (*models.Transaction, error)
	FindTransactions(ctx context.Context) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

type Ingester interface {
	IngestReader(ctx context.Context, cfg ingest.Config, r io.Reader) (ingest.Result, error)
}

type CLI struct {
	service  Service
	ingester Ingester
	profiles ingest.Profiles
	out      io.Writer
}

func New(service Service, ingester Ingester, profiles ingest.Profiles, out io.Writer) *CLI {
	return &CLI{service: service, ingester: ingester, profiles: profiles, out: out}
}

// IsCommand reports whether name is handled by Run.
func IsCommand(name string) bool {
	switch name {
	case "ingest", "list", "get", "delete", "help", "-h", "--help":
		return true
	}
	return false
}

// Run executes the command in args[0] with the remaining arguments.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.printUsage()
		return ErrUsage
	}

	switch args[0] {
	case "ingest":
		return c.runIngest(ctx, args[1:])
	case "list":
		return c.runList(ctx)
	case "get":
		return c.runGet(ctx, args[1:])
	case "delete":
		return c.runDelete(ctx, args[1:])
	case "help", "-h", "--help":
		c.printUsage()
		return nil
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n\n", args[0])
		c.printUsage()
		return ErrUsage
	}
}

func (c *CLI) printUsage() {
	fmt.Fprintln(c.out, "Statement service")
	fmt.Fprintln(c.out, "\nUsage:")
	fmt.Fprintln(c.out, "  statement-service [command] [options]")
	fmt.Fprintln(c.out, "\nCommands:")
	fmt.Fprintln(c.out, "  serve     Start the HTTP server (default)")
	fmt.Fprintln(c.out, "  ingest    Ingest a CSV statement: ingest -institution NAME -file PATH")
	fmt.Fprintln(c.out, "  list      List every transaction")
	fmt.Fprintln(c.out, "  get       Show one transaction: get ID")
	fmt.Fprintln(c.out, "  delete    Delete one transaction: delete ID")
	fmt.Fprintln(c.out, "  help      Show this help message")
}

func (c *CLI) runIngest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(c.out)
	institution := fs.String("institution", "default", "Institution profile of the statement")
	filePath := fs.String("file", "", "Path to the CSV statement")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if *filePath == "" {
		fmt.Fprintln(c.out, "Usage: ingest -institution NAME -file PATH")
		return ErrUsage
	}

	cfg, ok := c.profiles.Lookup(*institution)
	if !ok {
		return fmt.Errorf("unknown institution %q", *institution)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		return fmt.Errorf("failed to open statement: %w", err)
	}
	defer file.Close()

	result, err := c.ingester.IngestReader(ctx, cfg, file)
	if err != nil {
		if len(result.IDs) > 0 {
			fmt.Fprintf(c.out, "Created %d transactions before the failure\n", len(result.IDs))
		}
		return err
	}
	fmt.Fprintf(c.out, "Created %d transactions\n", len(result.IDs))
	for _, id := range result.IDs {
		fmt.Fprintln(c.out, id)
	}
	return nil
}

func (c *CLI) runList(ctx context.Context) error {
	transactions, err := c.service.FindTransactions(ctx)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		fmt.Fprintln(c.out, "No transactions")
		return nil
	}
	for i, tx := range transactions {
		if i > 0 {
			fmt.Fprintln(c.out)
		}
		fmt.Fprintln(c.out, tx)
	}
	return nil
}

func (c *CLI) runGet(ctx context.Context, args []string) error {
	id, err := singleID("get", args)
	if err != nil {
		return err
	}
	tx, err := c.service.FindTransaction(ctx, id)
	if err != nil {
		return err
	}
	if tx == nil {
		fmt.Fprintf(c.out, "Transaction %s not found\n", id)
		return nil
	}
	fmt.Fprintln(c.out, tx)
	return nil
}

func (c *CLI) runDelete(ctx context.Context, args []string) error {
	id, err := singleID("delete", args)
	if err != nil {
		return err
	}
	if err := c.service.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Deleted %s\n", id)
	return nil
}

func singleID(command string, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%w: %s takes exactly one transaction id", ErrUsage, command)
	}
	return args[0], nil
}
