package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"terminal-terrace/blog-service/config"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/pkg/authsdk"
)

type tokenOptions struct {
	userID      string
	state       string
	permissions []string
	ttl         time.Duration
}

// tokenCmd 用配置中的 HS256 密钥签发令牌，仅用于本地调试
func tokenCmd() *cobra.Command {
	var opts tokenOptions
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if conf.JWT.Algorithm != "HS256" {
				return fmt.Errorf("token command needs HS256, got %s", conf.JWT.Algorithm)
			}
			if _, err := permission.ParseUserState(opts.state); err != nil {
				return err
			}
			if _, unknown := permission.ParseSet(opts.permissions); len(unknown) > 0 {
				return fmt.Errorf("unknown permissions: %v", unknown)
			}
			if opts.userID == "" {
				opts.userID = uuid.NewString()
			}

			token, err := authsdk.SignHMAC(conf.JWT.Secret, authsdk.Claims{
				UserID:      opts.userID,
				UserState:   opts.state,
				Permissions: opts.permissions,
			}, opts.ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.userID, "user", "", "user id, random when empty")
	fs.StringVar(&opts.state, "state", string(permission.Active), "user state")
	fs.StringSliceVarP(&opts.permissions, "permission", "p", nil, "granted permissions")
	fs.DurationVar(&opts.ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
