package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SergeyParamoshkin/news/internal/auth"
	"github.com/SergeyParamoshkin/news/internal/config"
	"github.com/SergeyParamoshkin/news/internal/seed"
	"github.com/SergeyParamoshkin/news/internal/user"
)

type TokenOptions struct {
	Secret string
	UserID string
	Role   string
	TTL    time.Duration
}

type TokenResult struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token",
		Long: `Mint a signed access token for a user id, for local development
and smoke tests. The secret must match the server's jwt_secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := issueToken(opts, time.Now())
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Token)

			return err
		},
	}

	cmd.Flags().StringVar(&opts.Secret, "secret", config.GetEnv("JWT_SECRET", ""), "HMAC secret (defaults to NEWS_JWT_SECRET)")
	cmd.Flags().StringVar(&opts.UserID, "user", seed.AdminID, "user id carried in the token")
	cmd.Flags().StringVar(&opts.Role, "role", user.RoleAdmin, "role: admin, author or user")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}

func issueToken(opts *TokenOptions, now time.Time) (*TokenResult, error) {
	if opts.Secret == "" {
		return nil, errors.New("secret is required")
	}
	if !primitive.IsValidObjectID(opts.UserID) {
		return nil, fmt.Errorf("user %q is not a valid id", opts.UserID)
	}
	switch opts.Role {
	case user.RoleAdmin, user.RoleAuthor, user.RoleReader:
	default:
		return nil, fmt.Errorf("unknown role %q", opts.Role)
	}
	if opts.TTL <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	token, err := auth.New(opts.Secret).Issue(user.Identity{ID: opts.UserID, Role: opts.Role}, opts.TTL)
	if err != nil {
		return nil, err
	}

	return &TokenResult{
		Token:     token,
		UserID:    opts.UserID,
		Role:      opts.Role,
		ExpiresAt: now.Add(opts.TTL).UTC(),
	}, nil
}
