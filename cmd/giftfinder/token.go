package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/gift-finder/internal/config"
	"github.com/jonathan/gift-finder/internal/server"
)

var tokenClient string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long:  "Issue a signed bearer token for an API client. Requires JWT_SECRET; JWT_EXPIRATION_HOURS sets the lifetime.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenClient, "client", "", "Client ID to issue the token to (required)")
	_ = tokenCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenClient)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
