package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func newMigrateCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withBackend(cmd, open, func(b *backend) error {
					results, err := b.migrator.Up(cmd.Context())
					for _, r := range results {
						printResult(cmd, r)
					}
					if err != nil {
						return fmt.Errorf("migrate up: %w", err)
					}
					if len(results) == 0 {
						cmd.Println("no pending migrations")
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withBackend(cmd, open, func(b *backend) error {
					r, err := b.migrator.Down(cmd.Context())
					if errors.Is(err, goose.ErrNoNextVersion) {
						cmd.Println("nothing to roll back")
						return nil
					}
					if r != nil {
						printResult(cmd, r)
					}
					if err != nil {
						return fmt.Errorf("migrate down: %w", err)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withBackend(cmd, open, func(b *backend) error {
					statuses, err := b.migrator.Status(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrate status: %w", err)
					}
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "VERSION\tMIGRATION\tSTATE\tAPPLIED AT")
					for _, s := range statuses {
						applied := "-"
						if !s.AppliedAt.IsZero() {
							applied = s.AppliedAt.UTC().Format(time.RFC3339)
						}
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, filepath.Base(s.Source.Path), s.State, applied)
					}
					return tw.Flush()
				})
			},
		},
	)
	return cmd
}

func printResult(cmd *cobra.Command, r *goose.MigrationResult) {
	name := filepath.Base(r.Source.Path)
	if r.Error != nil {
		cmd.Printf("FAILED %s %s: %v\n", r.Direction, name, r.Error)
		return
	}
	cmd.Printf("OK %s %s (%s)\n", r.Direction, name, r.Duration.Round(time.Millisecond))
}
