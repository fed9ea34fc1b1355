package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxEnvelope is the fully resolved transaction about to be signed and
// submitted. Keeping it as an explicit record makes the write path auditable
// and lets safe mode stop right before signing.
type TxEnvelope struct {
	To       common.Address
	From     common.Address
	Data     []byte
	Value    *big.Int
	GasPrice *big.Int
	GasLimit uint64
}
