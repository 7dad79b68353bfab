package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/spf13/cobra"

	"petmatch/internal/service"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

// tokenEnv solo necesita el secreto; no exige configuracion de base de datos.
type tokenEnv struct {
	JWTSecret string `env:"JWT_SECRET,required"`
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for the /pets API using JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg tokenEnv
		if err := env.Parse(&cfg); err != nil {
			return err
		}
		token, err := service.NewJWTService(cfg.JWTSecret, tokenTTL).IssueAccessToken(tokenSubject)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Token subject (caller id)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 15*time.Minute, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}
