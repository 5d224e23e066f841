package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/camp-directory/internal/csvimport"
	"github.com/pkordes/camp-directory/internal/domain"
)

type importFlags struct {
	mode           string
	dryRun         bool
	noAccounts     bool
	credentialsOut string
}

func newImportCmd(open opener) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Reconcile a camp CSV file against the directory",
		Long: `Reads FILE ("-" for stdin) and inserts, updates or skips each row.
Per-row results are written to stderr as they finish and the summary is
printed to stdout as JSON. Generated owner logins go to --credentials-out
when set, otherwise they are part of the summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := domain.ParseImportMode(flags.mode)
			if !ok {
				return fmt.Errorf("invalid --mode %q: want skip or update", flags.mode)
			}
			opts := domain.ImportOptions{
				Mode:           mode,
				DryRun:         flags.dryRun,
				CreateAccounts: !flags.noAccounts,
			}

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			rows, err := csvimport.NewReader(in)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return withBackend(cmd, open, func(b *backend) error {
				stderr := cmd.ErrOrStderr()
				summary, runErr := b.importer.Reconcile(cmd.Context(), rows, opts, func(r domain.RowResult) {
					fmt.Fprintln(stderr, formatRow(r))
				})

				if flags.credentialsOut != "" && len(summary.Credentials) > 0 {
					if err := writeCredentialsFile(flags.credentialsOut, summary.Credentials); err != nil {
						return err
					}
					fmt.Fprintf(stderr, "wrote %d credentials to %s\n", len(summary.Credentials), flags.credentialsOut)
					summary.Credentials = nil
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(summary); err != nil {
					return err
				}
				return runErr
			})
		},
	}

	cmd.Flags().StringVar(&flags.mode, "mode", "skip", "What to do with rows whose unique key exists: skip or update")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report what would happen without writing anything")
	cmd.Flags().BoolVar(&flags.noAccounts, "no-accounts", false, "Do not create owner accounts for new camps")
	cmd.Flags().StringVar(&flags.credentialsOut, "credentials-out", "", "Write generated logins to this CSV file (mode 0600)")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// formatRow renders one row result as a single log line.
func formatRow(r domain.RowResult) string {
	line := fmt.Sprintf("row %d: %s", r.Row, r.Outcome)
	if r.CampID != 0 {
		line += fmt.Sprintf(" camp=%d", r.CampID)
	}
	if r.UniqueKey != "" {
		line += " key=" + r.UniqueKey
	}
	if r.AccountCreated {
		line += " account=created"
	}
	if r.Message != "" {
		line += " (" + r.Message + ")"
	}
	return line
}

// writeCredentialsFile writes creds as CSV readable only by the owner.
func writeCredentialsFile(path string, creds []domain.Credential) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("credentials file: %w", err)
	}
	// OpenFile keeps the mode of an existing file.
	if err := f.Chmod(0o600); err != nil {
		f.Close()
		return fmt.Errorf("credentials file: %w", err)
	}
	if err := csvimport.WriteCredentials(f, creds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
