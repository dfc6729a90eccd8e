// Package crypto provides EIP-712 typed-data hashing, local and remote
// signing, signature recovery, and encrypted key storage.
package crypto

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// eip712DomainTypeHash is the pre-computed keccak256 of the canonical
// four-field domain type string.
var eip712DomainTypeHash = ethcrypto.Keccak256(
	[]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"),
)

// Domain identifies the verifying contract an EIP-712 signature is bound to.
type Domain struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract string
}

// Field is one named, typed member of an EIP-712 struct. Order matters: the
// canonical type string and the encoded struct follow declaration order.
type Field struct {
	Name string
	Type string
}

// TypedData is a fully specified EIP-712 signing request. Message values are
// strings regardless of their declared type: addresses and bytes32 as hex,
// integers as decimal. This keeps large numbers exact across JSON boundaries
// and matches the eth_signTypedData_v4 wire shape.
type TypedData struct {
	Domain      Domain
	PrimaryType string
	Types       map[string][]Field
	Message     map[string]string
}

// TypeString returns the canonical EIP-712 encoding of the named type,
// e.g. "Mail(address from,address to,string contents)".
func (td TypedData) TypeString(name string) (string, error) {
	fields, ok := td.Types[name]
	if !ok {
		return "", fmt.Errorf("crypto: unknown type %q", name)
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Type + " " + f.Name
	}
	return name + "(" + strings.Join(parts, ",") + ")", nil
}

// Digest computes the 32-byte EIP-712 signing digest:
//
//	keccak256("\x19\x01" || domainSeparator || structHash)
//
// The same digest is produced on the signing and the verification side, so a
// signature valid for one is valid for the other.
func (td TypedData) Digest() ([]byte, error) {
	structHash, err := td.structHash()
	if err != nil {
		return nil, err
	}
	return ethcrypto.Keccak256(
		concatBytes(
			[]byte{0x19, 0x01},
			td.Domain.separator(),
			structHash,
		),
	), nil
}

// separator returns keccak256(abi.encode(typeHash, nameHash, versionHash,
// chainId, verifyingContract)).
func (d Domain) separator() []byte {
	addr := common.HexToAddress(d.VerifyingContract)
	return ethcrypto.Keccak256(
		concatBytes(
			eip712DomainTypeHash,
			ethcrypto.Keccak256([]byte(d.Name)),
			ethcrypto.Keccak256([]byte(d.Version)),
			bigIntTo32Bytes(big.NewInt(d.ChainID)),
			common.LeftPadBytes(addr.Bytes(), 32),
		),
	)
}

// structHash encodes and hashes the primary-type message:
// keccak256(typeHash || enc(field_1) || ... || enc(field_n)).
func (td TypedData) structHash() ([]byte, error) {
	typeStr, err := td.TypeString(td.PrimaryType)
	if err != nil {
		return nil, err
	}

	enc := ethcrypto.Keccak256([]byte(typeStr))
	for _, f := range td.Types[td.PrimaryType] {
		value, ok := td.Message[f.Name]
		if !ok {
			return nil, fmt.Errorf("crypto: message missing field %q", f.Name)
		}
		word, err := encodeField(f.Type, value)
		if err != nil {
			return nil, fmt.Errorf("crypto: field %q: %w", f.Name, err)
		}
		enc = concatBytes(enc, word)
	}

	return ethcrypto.Keccak256(enc), nil
}

// encodeField maps one message value to its 32-byte EIP-712 word.
func encodeField(typ, value string) ([]byte, error) {
	switch typ {
	case "address":
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("invalid address %q", value)
		}
		return common.LeftPadBytes(common.HexToAddress(value).Bytes(), 32), nil

	case "bytes32":
		raw, err := hex.DecodeString(strip0x(value))
		if err != nil {
			return nil, fmt.Errorf("invalid bytes32 %q: %w", value, err)
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("bytes32 must be 32 bytes, got %d", len(raw))
		}
		return raw, nil

	case "uint256":
		n, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return nil, fmt.Errorf("invalid uint256 %q", value)
		}
		if n.Sign() < 0 || n.BitLen() > 256 {
			return nil, fmt.Errorf("uint256 out of range %q", value)
		}
		return bigIntTo32Bytes(n), nil

	case "uint8":
		n, ok := new(big.Int).SetString(value, 10)
		if !ok || n.Sign() < 0 || n.BitLen() > 8 {
			return nil, fmt.Errorf("invalid uint8 %q", value)
		}
		return bigIntTo32Bytes(n), nil

	case "string":
		return ethcrypto.Keccak256([]byte(value)), nil

	default:
		return nil, fmt.Errorf("unsupported field type %q", typ)
	}
}

// SortedFieldNames returns the primary-type field names in declaration order.
// Used when rendering a typed-data payload for remote signers that expect a
// JSON object.
func (td TypedData) SortedFieldNames() []string {
	fields := td.Types[td.PrimaryType]
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// TypeNames returns the declared struct type names, sorted for stable output.
func (td TypedData) TypeNames() []string {
	names := make([]string, 0, len(td.Types))
	for name := range td.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func strip0x(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

// bigIntTo32Bytes returns a 32-byte big-endian representation of n.
func bigIntTo32Bytes(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) >= 32 {
		return b[:32]
	}
	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)
	return padded
}

// concatBytes concatenates multiple byte slices into one.
func concatBytes(slices ...[]byte) []byte {
	total := 0
	for _, s := range slices {
		total += len(s)
	}
	buf := make([]byte, 0, total)
	for _, s := range slices {
		buf = append(buf, s...)
	}
	return buf
}
