// Package parse normalizes the numeric and address encodings that EVM
// explorer APIs return inconsistently — sometimes hex, sometimes decimal,
// sometimes checksummed, sometimes not.
package parse

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Address validates a caller-supplied address. It does not mutate case:
// wire compatibility forbids checksumming or lowercasing unless a provider's
// EndpointSpec explicitly declares it.
func Address(s string) error {
	if !common.IsHexAddress(s) {
		return fmt.Errorf("parse: %q is not a valid hex address", s)
	}
	return nil
}

// Checksum returns the EIP-55 checksummed form of an address, for the
// EndpointSpecs that declare they require it.
func Checksum(s string) string {
	return common.HexToAddress(s).Hex()
}

func isHex(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// Uint64 accepts a 0x-prefixed hex string or a base-10 decimal string and
// returns the numeric value. Block numbers, transaction indices, and log
// indices arrive in either encoding depending on provider.
func Uint64(s string) (uint64, error) {
	if isHex(s) {
		v, err := hexutil.DecodeUint64(s)
		if err != nil {
			return 0, fmt.Errorf("parse: %q is not a valid hex uint64: %w", s, err)
		}
		return v, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse: %q is not a valid decimal uint64: %w", s, err)
	}
	return v, nil
}

// BigInt accepts a 0x-prefixed hex string or a base-10 decimal string and
// returns the value as an arbitrary-precision integer. Wei amounts and gas
// prices routinely exceed 64 bits.
func BigInt(s string) (*big.Int, error) {
	if isHex(s) {
		v, err := hexutil.DecodeBig(s)
		if err != nil {
			return nil, fmt.Errorf("parse: %q is not a valid hex integer: %w", s, err)
		}
		return v, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parse: %q is not a valid decimal integer", s)
	}
	return v, nil
}

// CompareNumeric compares two numeric strings, each independently hex or
// decimal encoded, returning -1, 0, or 1 per big.Int.Cmp.
func CompareNumeric(a, b string) (int, error) {
	av, err := BigInt(a)
	if err != nil {
		return 0, err
	}
	bv, err := BigInt(b)
	if err != nil {
		return 0, err
	}
	return av.Cmp(bv), nil
}
