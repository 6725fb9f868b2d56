// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package datum

import "strings"

// DefaultSourceIDTemplate is used when the resolved publish settings
// carry no template of their own.
const DefaultSourceIDTemplate = "/ocpp/{deviceIdentifier}/{connectorId}"

// SourceIDParams holds the recognized template placeholders.
type SourceIDParams struct {
	DeviceIdentifier string
	DeviceID         string
	ConnectorID      string
	Location         string
}

// SourceID expands the template with the given parameters, then prunes
// empty path segments. An empty template falls back to
// DefaultSourceIDTemplate. The optional suffix is appended to the
// template before expansion.
func SourceID(template, suffix string, p SourceIDParams) string {
	if template == "" {
		template = DefaultSourceIDTemplate
	}
	template += suffix

	r := strings.NewReplacer(
		"{deviceIdentifier}", p.DeviceIdentifier,
		"{deviceId}", p.DeviceID,
		"{connectorId}", p.ConnectorID,
		"{location}", p.Location,
	)
	expanded := r.Replace(template)

	segments := strings.Split(expanded, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}

	return "/" + strings.Join(kept, "/")
}
