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

// Package ksuid implements K-Sortable Unique Identifiers.
// A KSUID is a kind of globally unique identifier similar to a RFC 4122 UUID,
// built from the ground-up to be "naturally" sorted by generation timestamp
// without any special type-aware logic. In short, running a set of KSUIDs
// through the UNIX sort command will result in a list ordered by generation time.
package ksuid

import (
	"bytes"
	"crypto/rand"
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"
)

// EpochStamp is subtracted from real Unix timestamps before storage.
// KSUID's epoch starts more recently than the Unix epoch so that the 32-bit
// number space gives a significantly higher useful lifetime of around
// 136 years from March 2017. This number (14e8) was picked to be easy
// to remember and must never change: identifiers minted against a different
// epoch do not interoperate.
const EpochStamp = 1400000000

const (
	timestampLen = 4
	payloadLen   = 16

	byteLen   = timestampLen + payloadLen
	stringLen = 27
)

var (
	ErrInvalidPayloadLength = errors.New("invalid payload length")
	ErrInvalidBufferLength  = errors.New("invalid buffer length")
	ErrInvalidStringLength  = errors.New("invalid string length")
)

// KSUID is an identifier composed of a 4-byte big-endian timestamp at
// second resolution followed by 16 random payload bytes. Identifiers
// compare byte-wise, so generation order is comparison order.
type KSUID [byteLen]byte

// Nil is the zero-valued KSUID.
var Nil KSUID

// Max is the largest representable KSUID.
var Max = KSUID{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// New returns a KSUID for the current time with a random payload.
// It panics if the system random source fails.
func New() KSUID {
	var id KSUID
	binary.BigEndian.PutUint32(id[:timestampLen], uint32(time.Now().Unix()-EpochStamp))
	copy(id[timestampLen:], randomPayload(payloadLen))
	return id
}

// FromParts builds a KSUID from an explicit time and payload.
// The time is converted to UTC; the payload must be exactly 16 bytes.
func FromParts(t time.Time, payload []byte) (KSUID, error) {
	if len(payload) != payloadLen {
		return Nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPayloadLength, payloadLen, len(payload))
	}
	var id KSUID
	binary.BigEndian.PutUint32(id[:timestampLen], uint32(t.UTC().Unix()-EpochStamp))
	copy(id[timestampLen:], payload)
	return id, nil
}

// FromBytes builds a KSUID from a raw 20-byte buffer.
func FromBytes(b []byte) (KSUID, error) {
	if len(b) != byteLen {
		return Nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidBufferLength, byteLen, len(b))
	}
	var id KSUID
	copy(id[:], b)
	return id, nil
}

// Parse builds a KSUID from its canonical 27-character base62 string.
func Parse(s string) (KSUID, error) {
	buf, err := parseString(s)
	if err != nil {
		return Nil, err
	}
	return KSUID(buf), nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) KSUID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Time returns the identifier's creation time in UTC at second resolution.
func (i KSUID) Time() time.Time {
	return time.Unix(i.Unix(), 0).UTC()
}

// Unix returns the identifier's creation time as a Unix timestamp in seconds.
func (i KSUID) Unix() int64 {
	return int64(binary.BigEndian.Uint32(i[:timestampLen])) + EpochStamp
}

// Payload returns a copy of the 16 random payload bytes.
func (i KSUID) Payload() []byte {
	payload := make([]byte, payloadLen)
	copy(payload, i[timestampLen:])
	return payload
}

// Bytes returns a copy of the full 20-byte buffer.
func (i KSUID) Bytes() []byte {
	b := make([]byte, byteLen)
	copy(b, i[:])
	return b
}

// String returns the canonical base62 form, zero-padded to 27 characters.
// Canonical strings sort exactly like the underlying buffers.
func (i KSUID) String() string {
	return formatBytes(i[:])
}

func (i KSUID) IsNil() bool {
	return i == Nil
}

// Next returns the successor identifier, treating the buffer as a 160-bit
// big-endian integer. Max wraps around to Nil.
func (i KSUID) Next() KSUID {
	out := i
	for j := byteLen - 1; j >= 0; j-- {
		out[j]++
		if out[j] != 0 {
			break
		}
	}
	return out
}

// Prev returns the predecessor identifier. Nil wraps around to Max.
func (i KSUID) Prev() KSUID {
	out := i
	for j := byteLen - 1; j >= 0; j-- {
		out[j]--
		if out[j] != 0xff {
			break
		}
	}
	return out
}

// MarshalText renders the canonical string form.
func (i KSUID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *KSUID) UnmarshalText(b []byte) error {
	id, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// Value implements driver.Valuer, storing the canonical string form so that
// database sort order on the column matches generation order.
func (i KSUID) Value() (driver.Value, error) {
	return i.String(), nil
}

// Scan implements sql.Scanner. It accepts the canonical string form,
// a raw 20-byte buffer, or NULL (scanned as Nil).
func (i *KSUID) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*i = Nil
		return nil
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == byteLen {
			id, err := FromBytes(v)
			if err != nil {
				return err
			}
			*i = id
			return nil
		}
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into KSUID", src)
	}
}

// Compare returns -1, 0 or 1 ordering a and b byte-wise.
func Compare(a, b KSUID) int {
	return bytes.Compare(a[:], b[:])
}

// Sort sorts the identifiers in ascending generation order.
func Sort(ids []KSUID) {
	sort.Slice(ids, func(i, j int) bool { return Compare(ids[i], ids[j]) < 0 })
}

func IsSorted(ids []KSUID) bool {
	return sort.SliceIsSorted(ids, func(i, j int) bool { return Compare(ids[i], ids[j]) < 0 })
}

func randomPayload(n int) []byte {
	payload := make([]byte, n)
	if _, err := rand.Read(payload); err != nil {
		panic(fmt.Sprintf("ksuid: random source unavailable: %s", err))
	}
	return payload
}
