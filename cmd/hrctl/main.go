// Copyright 2026 HRChatBot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides hrctl, the admin CLI for the HR chat service:
// database seeding and audit-trail inspection.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shyamddesai/HRChatBot/internal/audit"
	"github.com/shyamddesai/HRChatBot/internal/config"
	"github.com/shyamddesai/HRChatBot/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrctl",
		Short: "Admin tooling for the HR chat service",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs/config.yaml",
		"path to the configuration file")

	rootCmd.AddCommand(newSeedCmd(), newAuditCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (*store.Store, *zap.Logger, error) {
	logger, _ := zap.NewProduction()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open HR database: %w", err)
	}
	return st, logger, nil
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty HR database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, logger, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			defer func() { _ = logger.Sync() }()

			if err := st.Seed(context.Background()); err != nil {
				return err
			}
			fmt.Println("Database seeded.")
			return nil
		},
	}
}

func newAuditCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent executed-query audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, logger, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			defer func() { _ = logger.Sync() }()

			sink, err := audit.NewStore(st.DB())
			if err != nil {
				return fmt.Errorf("failed to open audit sink: %w", err)
			}

			entries, err := sink.Tail(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No audit entries recorded.")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s  caller=%s  rows=%d\n  %s\n",
					e.Timestamp.Format(time.RFC3339), e.CallerID, e.RowCount, e.SQL)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}
