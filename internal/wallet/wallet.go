// Package wallet holds the operator's signing key and builds signed
// transactions from resolved envelopes.
package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"liquidationScope/internal/model"
)

// Wallet derives the operator address from a private key and signs
// transactions for one chain.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
	signer     types.Signer
}

// New parses a hex-encoded private key (with or without 0x prefix) and binds
// the wallet to the given chain ID.
func New(privateKeyHex string, chainID *big.Int) (*Wallet, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, fmt.Errorf("chain id is required")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return &Wallet{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
		chainID:    new(big.Int).Set(chainID),
		signer:     types.LatestSignerForChainID(chainID),
	}, nil
}

// Address returns the operator address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// SignEnvelope turns a transaction envelope into a signed transaction ready
// for submission.
func (w *Wallet) SignEnvelope(envelope model.TxEnvelope, nonce uint64) (*types.Transaction, error) {
	if envelope.GasPrice == nil {
		return nil, fmt.Errorf("gas price is required")
	}

	value := envelope.Value
	if value == nil {
		value = big.NewInt(0)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &envelope.To,
		Value:    value,
		Gas:      envelope.GasLimit,
		GasPrice: envelope.GasPrice,
		Data:     envelope.Data,
	})

	signed, err := types.SignTx(tx, w.signer, w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signed, nil
}
