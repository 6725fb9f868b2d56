// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sessions

import (
	"context"
	"time"

	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
)

var _ Authorizer = (*authorizer)(nil)

type authorizer struct {
	tokens TokenRepository
}

// NewAuthorizer returns an Authorizer backed by the token repository.
// Unknown tokens resolve to Invalid without an error; storage failures
// are returned alongside Invalid.
func NewAuthorizer(tokens TokenRepository) Authorizer {
	return &authorizer{tokens: tokens}
}

func (a *authorizer) Authorize(ctx context.Context, owner, token string) (AuthStatus, error) {
	t, err := a.tokens.Retrieve(ctx, owner, token)
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return Invalid, nil
		}
		return Invalid, err
	}

	if !t.Enabled {
		return Blocked, nil
	}
	if !t.Expiry.IsZero() && t.Expiry.Before(time.Now()) {
		return Expired, nil
	}

	return Accepted, nil
}
