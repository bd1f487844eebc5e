package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hiretools/catalog-cli/internal/publish"
)

var publishFilePath string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload an exported catalog file to the configured FTP drop",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("publish"); err != nil {
			return err
		}

		p, err := publish.New(publish.Options{
			Host:      cfg.Publish.Host,
			User:      cfg.Publish.User,
			Password:  cfg.Publish.Password,
			RemoteDir: cfg.Publish.RemoteDir,
			Timeout:   time.Duration(cfg.Publish.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return err
		}

		remote, err := p.Upload(ctx, publishFilePath)
		if err != nil {
			return err
		}

		zap.L().Info("publish complete",
			zap.String("local", publishFilePath),
			zap.String("remote", remote),
		)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishFilePath, "file", "", "local file to upload (required)")
	_ = publishCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(publishCmd)
}
