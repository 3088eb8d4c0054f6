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
	"fmt"
	"math/big"

	"github.com/99nil/ksuid/baseconv"
)

// formatBytes renders a 20-byte buffer as one big-endian unsigned integer
// in base62, left-padded to the fixed 27-character width. Both identifier
// variants share the buffer length, so they share this form.
func formatBytes(b []byte) string {
	x := new(big.Int).SetBytes(b)
	return baseconv.Base62.Pad(baseconv.Base62.EncodeBig(x), stringLen)
}

// parseString is the inverse of formatBytes. Only the fixed-width canonical
// form is accepted; values wider than the buffer fail instead of truncating.
func parseString(s string) ([byteLen]byte, error) {
	var buf [byteLen]byte
	if len(s) != stringLen {
		return buf, fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidStringLength, stringLen, len(s))
	}
	x, err := baseconv.Base62.DecodeBig(s)
	if err != nil {
		return buf, err
	}
	if x.Sign() < 0 {
		return buf, fmt.Errorf("%w: %q", baseconv.ErrInvalidDigit, '-')
	}
	if x.BitLen() > byteLen*8 {
		return buf, fmt.Errorf("%w: value exceeds %d bytes", ErrInvalidBufferLength, byteLen)
	}
	x.FillBytes(buf[:])
	return buf, nil
}
