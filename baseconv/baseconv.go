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

// Package baseconv converts integers between base-10 strings and an
// arbitrary radix defined by an ordered digit alphabet.
package baseconv

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Base62Digits is the digit alphabet used for canonical identifier strings.
const Base62Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	ErrInvalidAlphabet = errors.New("invalid digit alphabet")
	ErrInvalidDigit    = errors.New("invalid digit")
)

// Base62 is a shared converter over Base62Digits.
var Base62 *BaseConverter

func init() {
	c, err := New(Base62Digits)
	if err != nil {
		panic(err)
	}
	Base62 = c
}

type Option func(c *BaseConverter)

// WithSignOption overrides the default '-' sign symbol.
func WithSignOption(sign rune) Option {
	return func(c *BaseConverter) {
		c.sign = sign
	}
}

// BaseConverter encodes and decodes integers in the radix defined by its
// digit alphabet. It is stateless after construction and safe for
// concurrent use.
type BaseConverter struct {
	digits []rune
	index  map[rune]int
	sign   rune
}

func New(digits string, opts ...Option) (*BaseConverter, error) {
	c := &BaseConverter{digits: []rune(digits), sign: '-'}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.digits) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 digit symbols", ErrInvalidAlphabet)
	}
	c.index = make(map[rune]int, len(c.digits))
	for i, r := range c.digits {
		if r == c.sign {
			return nil, fmt.Errorf("%w: sign %q found in digit symbols", ErrInvalidAlphabet, c.sign)
		}
		if _, ok := c.index[r]; ok {
			return nil, fmt.Errorf("%w: duplicate digit %q", ErrInvalidAlphabet, r)
		}
		c.index[r] = i
	}
	return c, nil
}

// Radix returns the number of digit symbols.
func (c *BaseConverter) Radix() int { return len(c.digits) }

// Encode converts a base-10 integer string, optionally prefixed with '-',
// into the converter's radix. Zero encodes to the first digit symbol.
func (c *BaseConverter) Encode(number string) (string, error) {
	digits := strings.TrimPrefix(number, "-")
	if digits == "" {
		return "", fmt.Errorf("%w: empty number", ErrInvalidDigit)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidDigit, r)
		}
	}
	x, ok := new(big.Int).SetString(number, 10)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDigit, number)
	}
	return c.EncodeBig(x), nil
}

// Decode converts a string in the converter's radix back to a base-10
// integer string, restoring a leading '-' when the input starts with the
// sign symbol.
func (c *BaseConverter) Decode(encoded string) (string, error) {
	x, err := c.DecodeBig(encoded)
	if err != nil {
		return "", err
	}
	return x.Text(10), nil
}

// EncodeBig renders x in the converter's radix. Negative values are
// prefixed with the sign symbol.
func (c *BaseConverter) EncodeBig(x *big.Int) string {
	if x.Sign() == 0 {
		return string(c.digits[0])
	}
	n := new(big.Int).Abs(x)
	radix := big.NewInt(int64(len(c.digits)))
	rem := new(big.Int)
	out := make([]rune, 0, 32)
	for n.Sign() > 0 {
		n.QuoRem(n, radix, rem)
		out = append(out, c.digits[rem.Int64()])
	}
	if x.Sign() < 0 {
		out = append(out, c.sign)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// DecodeBig parses a string in the converter's radix. A leading sign symbol
// negates the result; the digit sequence after it must be non-empty.
func (c *BaseConverter) DecodeBig(encoded string) (*big.Int, error) {
	runes := []rune(encoded)
	neg := len(runes) > 0 && runes[0] == c.sign
	if neg {
		runes = runes[1:]
	}
	if len(runes) == 0 {
		return nil, fmt.Errorf("%w: empty digit sequence", ErrInvalidDigit)
	}
	x := new(big.Int)
	radix := big.NewInt(int64(len(c.digits)))
	digit := new(big.Int)
	for _, r := range runes {
		idx, ok := c.index[r]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDigit, r)
		}
		x.Mul(x, radix)
		x.Add(x, digit.SetInt64(int64(idx)))
	}
	if neg {
		x.Neg(x)
	}
	return x, nil
}

// Pad left-pads s with the zero digit symbol to the given width.
func (c *BaseConverter) Pad(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return strings.Repeat(string(c.digits[0]), n) + s
	}
	return s
}
