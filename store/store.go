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

// Package store keeps records keyed by their KSUID. Because the identifier
// carries its own creation time, the store derives expiration windows from
// the key alone; records need no extra timestamp attribute.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/99nil/ksuid"
)

// ErrNotFound reports that no record exists under the requested identifier.
var ErrNotFound = errors.New("record not found")

type KV struct {
	Key   []byte
	Value []byte
}

// Interface defines storage related interfaces. Keys are the identifier's
// raw 20-byte buffer; backends may persist them in any form that preserves
// byte order (the canonical string form does).
type Interface interface {
	// List lists all stored pairs in ascending key order
	List(ctx context.Context) ([]KV, error)

	// Get gets the value stored under the specified key
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key/value pair, replacing any previous value
	Set(ctx context.Context, key, value []byte) error

	// Delete deletes the key/value pair under the specified key
	Delete(ctx context.Context, key []byte) error
}

// Record is a stored value together with its identifier key.
type Record struct {
	ID    ksuid.KSUID
	Value []byte
}

// NewRecord mints an identifier for the given value.
func NewRecord(value []byte) Record {
	return Record{ID: ksuid.New(), Value: value}
}

// Created returns the record's creation time, recovered from its identifier.
func (r Record) Created() time.Time {
	return r.ID.Time()
}
