// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/chargepoints"
	"github.com/stretchr/testify/mock"
)

var _ chargepoints.ConfigReader = (*ConfigReader)(nil)

// ConfigReader is a mock implementation of chargepoints.ConfigReader.
type ConfigReader struct {
	mock.Mock
}

func (m *ConfigReader) ReadConfiguration(ctx context.Context, identity chargepoints.Identity, keys []string) <-chan chargepoints.ConfigResult {
	ret := m.Called(ctx, identity, keys)

	return ret.Get(0).(<-chan chargepoints.ConfigResult)
}

// Result returns a receive-only channel already holding one result,
// convenient for stubbing ReadConfiguration.
func Result(res chargepoints.ConfigResult) <-chan chargepoints.ConfigResult {
	ch := make(chan chargepoints.ConfigResult, 1)
	ch <- res

	return ch
}
