package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/courier/internal/batch"
	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/infrastructure"
	"github.com/JaimeStill/courier/internal/mapper"
	"github.com/JaimeStill/courier/internal/recipients"
	"github.com/JaimeStill/courier/internal/shares"
)

func newRootCommand() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "courier",
		Short: "Send a signing request to every recipient in a CSV file",
		Long: `Courier reads config.toml and a recipient list (data.csv) from the working
directory, fills the configured template for each recipient and sends each
one a share request. The first failing row stops the run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataFile != "" {
				cfg.Batch.DataFile = dataFile
			}
			if err := run(cmd, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done")
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "recipient CSV file (default from config, data.csv)")
	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}

	infra.Logger.Info(
		"courier starting",
		"env", cfg.Env(),
		"template_id", cfg.Template.ID,
		"data_file", cfg.Batch.DataFile,
	)

	rows, err := recipients.LoadFile(cfg.Batch.DataFile)
	if err != nil {
		return err
	}

	m := mapper.New(cfg.Template, shares.NewPolicy(nil), infra.Logger)
	runner := batch.New(cfg, infra.Remote, infra.Storage, m, infra.Logger)

	return runner.Run(cmd.Context(), rows)
}
