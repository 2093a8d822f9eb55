package core

import (
	"SchoolLicensing/entity"
	"context"
	"fmt"
)

// AuthenticateByToken resolves an operator API key.
func (c *Core) AuthenticateByToken(ctx context.Context, token string) (*entity.UserAuth, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	username, err := c.repo.CheckApiKey(ctx, token)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, fmt.Errorf("unknown api key")
	}
	return &entity.UserAuth{Username: username, Token: token}, nil
}

func (c *Core) GenerateApiKey(ctx context.Context, username string) (string, error) {
	if err := c.checkRepository(); err != nil {
		return "", err
	}
	if username == "" {
		return "", entity.Validation("username is required")
	}

	key, err := c.repo.GenerateApiKey(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return key, nil
}
