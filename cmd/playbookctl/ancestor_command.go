package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/playbook-graph/versioning-core/cmd/playbookctl/clilog"
	"github.com/playbook-graph/versioning-core/internal/ancestor"
	"github.com/playbook-graph/versioning-core/internal/commitstore"
	"github.com/playbook-graph/versioning-core/internal/config"
)

var dsnFlag string

func init() {
	commonAncestorCmd.Flags().StringVar(&dsnFlag, "dsn", "", "Postgres DSN (default: databaseUri from config)")
}

var commonAncestorCmd = &cobra.Command{
	Use:   "common-ancestor <commitIdA> <commitIdB>",
	Short: "Find the lowest common ancestor of two commits in the connected store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid commit id %q: %w", args[0], err)
		}
		b, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid commit id %q: %w", args[1], err)
		}

		dsn := dsnFlag
		if dsn == "" {
			dsn = viper.GetString("databaseUri")
		}
		if dsn == "" {
			return fmt.Errorf("no database URI: pass --dsn or set databaseUri in config")
		}

		ctx := context.Background()
		pool, err := config.Connect(ctx, config.DefaultPostgres(dsn))
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		store, err := commitstore.NewPostgres(pool)
		if err != nil {
			return err
		}

		id, found, err := ancestor.FindCommonAncestor(ctx, store, a, b)
		if err != nil {
			return fmt.Errorf("resolve common ancestor: %w", err)
		}
		if !found {
			clilog.L().Info("no common ancestor", "a", a, "b", b)
			return nil
		}
		clilog.L().Info("common ancestor found", "commitId", id)
		return nil
	},
}
