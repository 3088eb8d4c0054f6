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
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99nil/ksuid/baseconv"
)

func TestNew(t *testing.T) {
	id := New()
	assert.False(t, id.IsNil())
	assert.Len(t, id.Payload(), 16)
	assert.Len(t, id.Bytes(), 20)
	assert.Len(t, id.String(), 27)
	assert.WithinDuration(t, time.Now(), id.Time(), 2*time.Second)
}

func TestFromParts(t *testing.T) {
	at := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	payload := []byte("0123456789abcdef")

	id, err := FromParts(at, payload)
	require.NoError(t, err)
	assert.True(t, id.Time().Equal(at))
	assert.Equal(t, at.Unix(), id.Unix())
	assert.Equal(t, payload, id.Payload())

	// non-UTC zones resolve to the same instant
	zone := time.FixedZone("UTC+7", 7*60*60)
	other, err := FromParts(at.In(zone), payload)
	require.NoError(t, err)
	assert.Equal(t, id, other)

	_, err = FromParts(at, []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidPayloadLength)
	_, err = FromParts(at, make([]byte, 17))
	assert.ErrorIs(t, err, ErrInvalidPayloadLength)
}

func TestFromBytes(t *testing.T) {
	id := New()
	back, err := FromBytes(id.Bytes())
	require.NoError(t, err)
	assert.Equal(t, id, back)

	for _, n := range []int{0, 19, 21} {
		_, err := FromBytes(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidBufferLength, "length %d", n)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for i := 0; i < 10; i++ {
		id := New()
		back, err := Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, back)
	}
}

func TestStringFixedWidth(t *testing.T) {
	assert.Equal(t, strings.Repeat("0", 27), Nil.String())

	// buffer value 61 renders as 26 zero symbols and one 'z'
	buf := make([]byte, 20)
	buf[19] = 61
	id, err := FromBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 26)+"z", id.String())

	// buffer value 62 carries into the next digit
	buf[19] = 62
	id, err = FromBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 25)+"10", id.String())

	assert.Len(t, Max.String(), 27)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrInvalidStringLength)
	_, err = Parse(strings.Repeat("0", 26))
	assert.ErrorIs(t, err, ErrInvalidStringLength)
	_, err = Parse(strings.Repeat("0", 28))
	assert.ErrorIs(t, err, ErrInvalidStringLength)

	_, err = Parse(strings.Repeat("0", 26) + "!")
	assert.ErrorIs(t, err, baseconv.ErrInvalidDigit)
	_, err = Parse("-" + strings.Repeat("1", 26))
	assert.ErrorIs(t, err, baseconv.ErrInvalidDigit)

	// all-'z' is larger than any 160-bit value
	_, err = Parse(strings.Repeat("z", 27))
	assert.ErrorIs(t, err, ErrInvalidBufferLength)
}

func TestOrdering(t *testing.T) {
	payload := make([]byte, 16)
	earlier, err := FromParts(time.Unix(1650000000, 0), payload)
	require.NoError(t, err)
	later, err := FromParts(time.Unix(1650000010, 0), payload)
	require.NoError(t, err)

	assert.Equal(t, -1, Compare(earlier, later))
	assert.Equal(t, 1, Compare(later, earlier))
	assert.True(t, earlier.String() < later.String())
}

func TestEqualTimestampTieBreak(t *testing.T) {
	at := time.Unix(1650000000, 0)
	low := make([]byte, 16)
	high := make([]byte, 16)
	high[0] = 1

	a, err := FromParts(at, low)
	require.NoError(t, err)
	b, err := FromParts(at, high)
	require.NoError(t, err)

	assert.Equal(t, -1, Compare(a, b))
	assert.True(t, a.String() < b.String())

	same, err := FromParts(at, low)
	require.NoError(t, err)
	assert.Equal(t, a, same)
	assert.Equal(t, 0, Compare(a, same))
}

func TestNextPrev(t *testing.T) {
	id := New()
	assert.Equal(t, 1, Compare(id.Next(), id))
	assert.Equal(t, -1, Compare(id.Prev(), id))
	assert.Equal(t, id, id.Next().Prev())

	assert.Equal(t, Nil, Max.Next())
	assert.Equal(t, Max, Nil.Prev())
}

func TestSort(t *testing.T) {
	base := New()
	ids := []KSUID{base.Next().Next(), base, base.Next()}
	assert.False(t, IsSorted(ids))
	Sort(ids)
	assert.True(t, IsSorted(ids))
	assert.Equal(t, base, ids[0])
}

func TestJSONRoundTrip(t *testing.T) {
	id := New()
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(data))

	var back KSUID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id, back)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &back))
}

func TestSQLValueScan(t *testing.T) {
	id := New()

	value, err := id.Value()
	require.NoError(t, err)
	assert.Equal(t, id.String(), value)

	var fromString KSUID
	require.NoError(t, fromString.Scan(id.String()))
	assert.Equal(t, id, fromString)

	var fromBytes KSUID
	require.NoError(t, fromBytes.Scan(id.Bytes()))
	assert.Equal(t, id, fromBytes)

	var fromNil KSUID
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, Nil, fromNil)

	var bad KSUID
	assert.Error(t, bad.Scan(42))
}

func TestMustParse(t *testing.T) {
	id := New()
	assert.Equal(t, id, MustParse(id.String()))
	assert.Panics(t, func() { MustParse("bogus") })
}
