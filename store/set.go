// Copyright © 2022 zc2638 <zc2638@qq.com>.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/99nil/ksuid"
)

type Option func(s *Set)

// WithLoggerOption overrides the default standard logger.
func WithLoggerOption(logger logrus.FieldLogger) Option {
	return func(s *Set) {
		s.log = logger
	}
}

// WithTTLOption gives every record in the set a lifetime measured from its
// identifier's creation time. Zero means records never expire.
func WithTTLOption(ttl time.Duration) Option {
	return func(s *Set) {
		s.ttl = ttl
	}
}

// Set is a collection of records bound to a storage backend.
type Set struct {
	storage Interface
	log     logrus.FieldLogger
	ttl     time.Duration
}

func NewSet(storage Interface, opts ...Option) *Set {
	s := &Set{storage: storage, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the record stored under the given identifier.
func (s *Set) Get(ctx context.Context, id ksuid.KSUID) (*Record, error) {
	value, err := s.storage.Get(ctx, id.Bytes())
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Value: value}, nil
}

// Add stores records. Records with a nil identifier are assigned successive
// fresh identifiers.
func (s *Set) Add(ctx context.Context, records ...Record) error {
	id := ksuid.New()
	for _, record := range records {
		if record.ID.IsNil() {
			record.ID = id
			id = id.Next()
		}
		if err := s.storage.Set(ctx, record.ID.Bytes(), record.Value); err != nil {
			return err
		}
	}
	return nil
}

// Del deletes the records stored under the given identifiers.
func (s *Set) Del(ctx context.Context, ids ...ksuid.KSUID) error {
	for _, id := range ids {
		if err := s.storage.Delete(ctx, id.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// ExpiresAt returns the moment the record under id stops being live:
// its creation time plus the set's TTL. With no TTL configured it returns
// the zero time.
func (s *Set) ExpiresAt(id ksuid.KSUID) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return id.Time().Add(s.ttl)
}

// PruneExpired deletes every record whose expiration is at or before now
// and reports how many were removed. Keys that are not valid identifiers
// are left in place.
func (s *Set) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	kvs, err := s.storage.List(ctx)
	if err != nil {
		return 0, err
	}

	var pruned int
	for _, kv := range kvs {
		id, err := ksuid.FromBytes(kv.Key)
		if err != nil {
			s.log.WithError(err).Warnln("skipping record with malformed key")
			continue
		}
		if s.ExpiresAt(id).After(now) {
			continue
		}
		if err := s.storage.Delete(ctx, kv.Key); err != nil {
			return pruned, err
		}
		s.log.WithField("id", id.String()).Debugln("pruned expired record")
		pruned++
	}
	if pruned > 0 {
		s.log.Infof("pruned %d expired records", pruned)
	}
	return pruned, nil
}
