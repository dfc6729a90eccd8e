package escrow

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// priceScale converts the normalized price to a fixed-point integer with six
// decimal places before it enters the identifier encoding.
const priceScale = 1_000_000

// GenerateOrderID derives the deterministic 32-byte order identifier from the
// order parameters. Every field participates: the identifier is
// keccak256 over a canonical fixed-width encoding of
//
//	address(20) || keccak256(marketId)(32) || side(1) ||
//	size(32, big-endian) || price*1e6(8) || timestampMs(8) || chainId(8)
//
// and is returned as a 0x-prefixed lowercase hex string.
func GenerateOrderID(params domain.OrderParams) (string, error) {
	if !common.IsHexAddress(params.UserAddress) {
		return "", fmt.Errorf("escrow: %w: invalid user address %q",
			domain.ErrValidation, params.UserAddress)
	}
	if !params.Side.Valid() {
		return "", fmt.Errorf("escrow: %w: invalid side %q", domain.ErrValidation, params.Side)
	}
	if params.Size == nil || params.Size.Sign() < 0 {
		return "", fmt.Errorf("escrow: %w: size must be a non-negative integer", domain.ErrValidation)
	}
	if params.Size.BitLen() > 256 {
		return "", fmt.Errorf("escrow: %w: size exceeds 256 bits", domain.ErrValidation)
	}
	if params.Price < 0 || params.Price > 1 || math.IsNaN(params.Price) {
		return "", fmt.Errorf("escrow: %w: invalid price %v, must be within [0, 1]",
			domain.ErrValidation, params.Price)
	}

	var buf []byte
	buf = append(buf, common.HexToAddress(params.UserAddress).Bytes()...)
	buf = append(buf, ethcrypto.Keccak256([]byte(params.MarketID))...)

	if params.Side == domain.SideSell {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	size := make([]byte, 32)
	params.Size.FillBytes(size)
	buf = append(buf, size...)

	buf = binary.BigEndian.AppendUint64(buf, uint64(math.Round(params.Price*priceScale)))
	buf = binary.BigEndian.AppendUint64(buf, uint64(params.TimestampMS))
	buf = binary.BigEndian.AppendUint64(buf, uint64(params.ChainID))

	return "0x" + hex.EncodeToString(ethcrypto.Keccak256(buf)), nil
}

// VerifyOrderID reports whether id is the identifier derived from params.
// The comparison ignores hex case. Validation failures on params surface as
// errors, not as a false result.
func VerifyOrderID(id string, params domain.OrderParams) (bool, error) {
	derived, err := GenerateOrderID(params)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(id, derived), nil
}
