// Package seed fills the database with a demo account and a small scan
// history for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/models"
	"github.com/adermis/adermis/internal/repositories"
	"github.com/adermis/adermis/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "db",
	Title: "Database operations",
}

func init() {
	Demo.Flags().String("db", "./adermis.sqlite", "path to the SQLite database")
}

var demoHistory = []models.AnalysisResult{
	{
		Condition:   "Eczema",
		Confidence:  87,
		Severity:    models.SeverityForConfidence(87),
		Description: "The analysis indicates a likelihood of Eczema.",
	},
	{
		Condition:   "Psoriasis",
		Confidence:  64,
		Severity:    models.SeverityForConfidence(64),
		Description: "The analysis indicates a likelihood of Psoriasis.",
	},
	{
		Condition:   "Acne",
		Confidence:  42,
		Severity:    models.SeverityForConfidence(42),
		Description: "The analysis indicates a likelihood of Acne.",
	},
}

var Demo = &cobra.Command{
	Use:     "seed",
	GroupID: "db",
	Short:   "Seed demo data",
	Long:    `Creates a demo user (test@example.com / testpassword123) with a few scans in the history.`,
	Run: func(cmd *cobra.Command, _ []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx := context.Background()

		dbURL, err := cmd.Flags().GetString("db")
		if err != nil {
			fail(err)
		}

		db, err := sqlite.NewDatabase(ctx, dbURL, logger)
		if err != nil {
			fail(errors.Wrap(err, "open database"))
		}
		defer db.Close()

		users := repositories.NewUserRepository(db, logger)
		userID, err := users.Register(ctx, "test@example.com", "Test User", "testpassword123")
		if err != nil {
			if errors.Is(err, repositories.ErrDuplicateEmail) {
				fmt.Println("demo user already exists, nothing to do")
				return
			}
			fail(errors.Wrap(err, "create demo user"))
		}

		scans := repositories.NewScanRepository(db, logger)
		for _, result := range demoHistory {
			if _, err = scans.Record(ctx, userID, result); err != nil {
				fail(errors.Wrap(err, "record demo scan"))
			}
		}

		fmt.Printf("seeded demo user test@example.com with %d scans\n", len(demoHistory))
	},
}

func fail(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
