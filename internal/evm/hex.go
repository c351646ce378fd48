package evm

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidHex is returned for malformed hex quantities.
var ErrInvalidHex = errors.New("invalid hex quantity")

// weiDecimals is the exponent between wei and ether.
const weiDecimals = 18

// ParseQuantity parses a 0x-prefixed hex quantity.
func ParseQuantity(s string) (uint64, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	n, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return n, nil
}

// ParseBig parses a 0x-prefixed hex quantity of arbitrary size.
// "0x" alone is treated as zero.
func ParseBig(s string) (*big.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return n, nil
}

// ToQuantity encodes n as a 0x-prefixed hex quantity.
func ToQuantity(n uint64) string {
	return "0x" + strconv.FormatUint(n, 16)
}

// TopicToAddress extracts the address from a 32-byte indexed topic.
func TopicToAddress(topic string) (string, bool) {
	digits := strings.TrimPrefix(topic, "0x")
	if len(digits) != 64 {
		return "", false
	}
	return "0x" + strings.ToLower(digits[24:]), true
}

// DataWordAddress extracts the address stored in the i-th 32-byte word
// of ABI-encoded log data.
func DataWordAddress(data string, i int) (string, bool) {
	digits := strings.TrimPrefix(data, "0x")
	start := i * 64
	if i < 0 || len(digits) < start+64 {
		return "", false
	}
	return TopicToAddress(digits[start : start+64])
}

// HasCode reports whether a hex bytecode string is non-empty.
func HasCode(code string) bool {
	return strings.TrimPrefix(code, "0x") != ""
}

// WeiToEther formats a wei amount as ether with the given decimal places.
func WeiToEther(wei *big.Int, places int32) string {
	if wei == nil {
		wei = new(big.Int)
	}
	return decimal.NewFromBigInt(wei, -weiDecimals).StringFixed(places)
}

// ShortAddress renders 0x1234ab...cdef for display.
func ShortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-4:]
}
