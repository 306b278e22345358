package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costwise/costwise/internal/cli"
	"github.com/costwise/costwise/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Database schema at version %d (expected %d)", version, storage.ExpectedSchemaVersion)))
			return nil
		},
	}
}
