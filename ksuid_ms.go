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

package ksuid

import (
	"bytes"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const (
	msTimestampLen = 5
	msPayloadLen   = 15

	// msMultiplier scales seconds into the stored timestamp. A power of two
	// keeps the division on decode cheap and the rounding a stable fixed
	// point: fractional seconds finer than 1/256 s are not preserved.
	msMultiplier = 256
)

// KSUIDMs is the higher-precision identifier variant: a 5-byte big-endian
// timestamp at 1/256 second resolution followed by 15 random payload bytes.
// The buffer length matches KSUID, so the canonical string form is shared,
// but the two variants are distinct types and never compare to each other.
type KSUIDMs [byteLen]byte

// NilMs is the zero-valued KSUIDMs.
var NilMs KSUIDMs

// NewMs returns a KSUIDMs for the current time with a random payload.
// It panics if the system random source fails.
func NewMs() KSUIDMs {
	id, err := FromPartsMs(time.Now(), randomPayload(msPayloadLen))
	if err != nil {
		panic(err)
	}
	return id
}

// FromPartsMs builds a KSUIDMs from an explicit time and payload.
// The time is converted to UTC; the payload must be exactly 15 bytes.
func FromPartsMs(t time.Time, payload []byte) (KSUIDMs, error) {
	if len(payload) != msPayloadLen {
		return NilMs, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPayloadLength, msPayloadLen, len(payload))
	}
	var id KSUIDMs
	putMsStamp(id[:msTimestampLen], t)
	copy(id[msTimestampLen:], payload)
	return id, nil
}

// FromBytesMs builds a KSUIDMs from a raw 20-byte buffer.
func FromBytesMs(b []byte) (KSUIDMs, error) {
	if len(b) != byteLen {
		return NilMs, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidBufferLength, byteLen, len(b))
	}
	var id KSUIDMs
	copy(id[:], b)
	return id, nil
}

// ParseMs builds a KSUIDMs from its canonical 27-character base62 string.
func ParseMs(s string) (KSUIDMs, error) {
	buf, err := parseString(s)
	if err != nil {
		return NilMs, err
	}
	return KSUIDMs(buf), nil
}

// MustParseMs is like ParseMs but panics on malformed input.
func MustParseMs(s string) KSUIDMs {
	id, err := ParseMs(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Stamp returns the stored timestamp integer: seconds since EpochStamp
// scaled by the multiplier.
func (i KSUIDMs) Stamp() uint64 {
	var b [8]byte
	copy(b[8-msTimestampLen:], i[:msTimestampLen])
	return binary.BigEndian.Uint64(b[:])
}

// Time returns the identifier's creation time in UTC at 1/256 second
// resolution.
func (i KSUIDMs) Time() time.Time {
	stamp := i.Stamp()
	sec := int64(stamp/msMultiplier) + EpochStamp
	nsec := int64(stamp%msMultiplier) * int64(time.Second) / msMultiplier
	return time.Unix(sec, nsec).UTC()
}

// Payload returns a copy of the 15 random payload bytes.
func (i KSUIDMs) Payload() []byte {
	payload := make([]byte, msPayloadLen)
	copy(payload, i[msTimestampLen:])
	return payload
}

// Bytes returns a copy of the full 20-byte buffer.
func (i KSUIDMs) Bytes() []byte {
	b := make([]byte, byteLen)
	copy(b, i[:])
	return b
}

// String returns the canonical base62 form, zero-padded to 27 characters.
func (i KSUIDMs) String() string {
	return formatBytes(i[:])
}

func (i KSUIDMs) IsNil() bool {
	return i == NilMs
}

// MarshalText renders the canonical string form.
func (i KSUIDMs) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *KSUIDMs) UnmarshalText(b []byte) error {
	id, err := ParseMs(string(b))
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// Value implements driver.Valuer, storing the canonical string form.
func (i KSUIDMs) Value() (driver.Value, error) {
	return i.String(), nil
}

// Scan implements sql.Scanner. It accepts the canonical string form,
// a raw 20-byte buffer, or NULL (scanned as NilMs).
func (i *KSUIDMs) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*i = NilMs
		return nil
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == byteLen {
			id, err := FromBytesMs(v)
			if err != nil {
				return err
			}
			*i = id
			return nil
		}
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into KSUIDMs", src)
	}
}

// CompareMs returns -1, 0 or 1 ordering a and b byte-wise.
func CompareMs(a, b KSUIDMs) int {
	return bytes.Compare(a[:], b[:])
}

// putMsStamp writes the scaled timestamp for t into the first 5 bytes of
// dst. The fractional second is rounded to the nearest 1/256, carrying into
// the whole seconds when it rounds up to a full second.
func putMsStamp(dst []byte, t time.Time) {
	t = t.UTC()
	sec := uint64(t.Unix() - EpochStamp)
	frac := uint64(math.Round(float64(t.Nanosecond()) * msMultiplier / float64(time.Second)))
	stamp := sec*msMultiplier + frac

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], stamp)
	copy(dst, b[8-msTimestampLen:])
}
