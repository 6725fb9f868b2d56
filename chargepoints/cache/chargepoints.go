// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	"github.com/go-redis/redis/v8"
)

const idPrefix = "charge_point_id"

var _ chargepoints.Cache = (*chargePointCache)(nil)

type chargePointCache struct {
	client   *redis.Client
	duration time.Duration
}

// NewCache returns redis charge point cache implementation.
func NewCache(client *redis.Client, duration time.Duration) chargepoints.Cache {
	return &chargePointCache{
		client:   client,
		duration: duration,
	}
}

func (cc *chargePointCache) Save(ctx context.Context, identity chargepoints.Identity, id string) error {
	if err := cc.client.Set(ctx, key(identity), id, cc.duration).Err(); err != nil {
		return errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	return nil
}

func (cc *chargePointCache) ID(ctx context.Context, identity chargepoints.Identity) (string, error) {
	id, err := cc.client.Get(ctx, key(identity)).Result()
	if err != nil {
		return "", errors.Wrap(repoerr.ErrNotFound, err)
	}
	if id == "" {
		return "", repoerr.ErrNotFound
	}

	return id, nil
}

func (cc *chargePointCache) Remove(ctx context.Context, identity chargepoints.Identity) error {
	if err := cc.client.Del(ctx, key(identity)).Err(); err != nil && err != redis.Nil {
		return errors.Wrap(repoerr.ErrRemoveEntity, err)
	}

	return nil
}

func key(identity chargepoints.Identity) string {
	return fmt.Sprintf("%s:%s:%s", idPrefix, identity.Owner, identity.Identifier)
}
