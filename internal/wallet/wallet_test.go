package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"liquidationScope/internal/model"
)

// Well-known throwaway key, never funded.
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

const testKeyAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func TestNewDerivesAddress(t *testing.T) {
	w, err := New(testKey, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.Address().Hex(); got != testKeyAddress {
		t.Fatalf("address mismatch: %s != %s", got, testKeyAddress)
	}

	// 0x prefix and surrounding whitespace are accepted.
	w2, err := New(" 0x"+testKey+" ", big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error with prefix: %v", err)
	}
	if w2.Address() != w.Address() {
		t.Fatalf("prefix changed derived address")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New("zz", big.NewInt(1)); err == nil {
		t.Fatalf("expected error for malformed key")
	}
	if _, err := New(testKey, nil); err == nil {
		t.Fatalf("expected error for nil chain id")
	}
	if _, err := New(testKey, big.NewInt(0)); err == nil {
		t.Fatalf("expected error for zero chain id")
	}
}

func TestSignEnvelope(t *testing.T) {
	chainID := big.NewInt(42161)
	w, err := New(testKey, chainID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	envelope := model.TxEnvelope{
		To:       common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"),
		From:     w.Address(),
		Data:     []byte{0xde, 0xad},
		Value:    big.NewInt(0),
		GasPrice: big.NewInt(2_000_000_000),
		GasLimit: 482991,
	}

	signed, err := w.SignEnvelope(envelope, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if signed.Nonce() != 7 {
		t.Fatalf("nonce mismatch: %d", signed.Nonce())
	}
	if signed.Gas() != envelope.GasLimit {
		t.Fatalf("gas limit mismatch: %d", signed.Gas())
	}
	if signed.To() == nil || *signed.To() != envelope.To {
		t.Fatalf("destination mismatch: %v", signed.To())
	}
	if signed.GasPrice().Cmp(envelope.GasPrice) != 0 {
		t.Fatalf("gas price mismatch: %s", signed.GasPrice())
	}
}

func TestSignEnvelopeRequiresGasPrice(t *testing.T) {
	w, err := New(testKey, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := w.SignEnvelope(model.TxEnvelope{}, 0); err == nil {
		t.Fatalf("expected error for missing gas price")
	}
}
