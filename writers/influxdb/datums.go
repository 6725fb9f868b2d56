// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package influxdb persists derived datums to the primary time-series
// store.
package influxdb

import (
	"context"
	"strconv"

	"github.com/absmach/csms/datum"
	"github.com/absmach/csms/pkg/errors"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

const measurement = "datums"

var errSaveDatum = errors.New("failed to save datum to influxdb database")

var _ datum.Repository = (*datumRepo)(nil)

// RepoConfig holds the target bucket and organization.
type RepoConfig struct {
	Bucket string
	Org    string
}

type datumRepo struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// NewRepository returns a new InfluxDB datum writer.
func NewRepository(client influxdb2.Client, config RepoConfig) datum.Repository {
	return &datumRepo{
		client:   client,
		writeAPI: client.WriteAPIBlocking(config.Org, config.Bucket),
	}
}

func (repo *datumRepo) Store(ctx context.Context, d datum.Datum) error {
	tags := map[string]string{
		"source":  d.SourceID,
		"node_id": strconv.FormatInt(d.NodeID, 10),
	}

	fields := make(map[string]any, len(d.Properties))
	for _, name := range d.Names() {
		p := d.Properties[name]
		if p.Classification == datum.Status {
			fields[name] = p.StringValue
			continue
		}
		fields[name] = p.Value
	}
	if len(fields) == 0 {
		return nil
	}

	pt := influxdb2.NewPoint(measurement, tags, fields, d.Timestamp)
	if err := repo.writeAPI.WritePoint(ctx, pt); err != nil {
		return errors.Wrap(errSaveDatum, err)
	}

	return nil
}
