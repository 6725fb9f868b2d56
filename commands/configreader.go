// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/absmach/csms/chargepoints"
)

var _ chargepoints.ConfigReader = (*configReader)(nil)

type configReader struct {
	dispatcher Service
}

// NewConfigReader adapts the dispatcher into the configuration reader
// used by connector reconciliation.
func NewConfigReader(dispatcher Service) chargepoints.ConfigReader {
	return &configReader{dispatcher: dispatcher}
}

func (r *configReader) ReadConfiguration(ctx context.Context, identity chargepoints.Identity, keys []string) <-chan chargepoints.ConfigResult {
	out := make(chan chargepoints.ConfigResult, 1)
	results := r.dispatcher.Dispatch(ctx, identity, ActionGetConfiguration, GetConfiguration{Keys: keys})

	go func() {
		res := <-results
		if res.Err != nil {
			out <- chargepoints.ConfigResult{Err: res.Err}
			return
		}
		out <- chargepoints.ConfigResult{Keys: configurationKeys(res.Payload)}
	}()

	return out
}

// configurationKeys flattens a GetConfiguration response payload into a
// key-value map. The conf payload shape follows the OCPP response:
// configurationKey is a list of {key, value} entries.
func configurationKeys(payload map[string]any) map[string]string {
	keys := map[string]string{}
	entries, ok := payload["configurationKey"].([]any)
	if !ok {
		return keys
	}
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, ok := entry["key"].(string)
		if !ok || name == "" {
			continue
		}
		if value, ok := entry["value"]; ok && value != nil {
			keys[name] = fmt.Sprint(value)
		}
	}

	return keys
}
