// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sessions_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	"github.com/absmach/csms/sessions"
	"github.com/absmach/csms/sessions/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthorize(t *testing.T) {
	owner := "owner@example.com"

	cases := []struct {
		desc        string
		token       sessions.Token
		retrieveErr error
		status      sessions.AuthStatus
		err         error
	}{
		{
			desc:   "enabled token",
			token:  sessions.Token{Owner: owner, Token: "T1", Enabled: true},
			status: sessions.Accepted,
		},
		{
			desc:   "enabled token with future expiry",
			token:  sessions.Token{Owner: owner, Token: "T1", Enabled: true, Expiry: time.Now().Add(time.Hour)},
			status: sessions.Accepted,
		},
		{
			desc:   "disabled token",
			token:  sessions.Token{Owner: owner, Token: "T1", Enabled: false},
			status: sessions.Blocked,
		},
		{
			desc:   "expired token",
			token:  sessions.Token{Owner: owner, Token: "T1", Enabled: true, Expiry: time.Now().Add(-time.Hour)},
			status: sessions.Expired,
		},
		{
			desc:        "unknown token",
			retrieveErr: repoerr.ErrNotFound,
			status:      sessions.Invalid,
		},
		{
			desc:        "storage failure",
			retrieveErr: repoerr.ErrViewEntity,
			status:      sessions.Invalid,
			err:         repoerr.ErrViewEntity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			tokens := new(mocks.TokenRepository)
			auth := sessions.NewAuthorizer(tokens)

			tokens.On("Retrieve", mock.Anything, owner, "T1").Return(tc.token, tc.retrieveErr)

			status, err := auth.Authorize(context.Background(), owner, "T1")
			assert.Equal(t, tc.status, status, tc.desc)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.err, err))
		})
	}
}
