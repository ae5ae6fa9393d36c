package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const txAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTxID returns a demo transaction ID like "TX-7K2M9QAZ",
// TX- plus 8 uppercase base-36 characters.
func GenerateTxID() (string, error) {
	max := big.NewInt(int64(len(txAlphabet)))

	id := make([]byte, 8)
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		id[i] = txAlphabet[n.Int64()]
	}
	return "TX-" + string(id), nil
}

// GenerateFlwTxRef returns a Flutterwave transaction reference,
// flw_ plus the current unix-millisecond timestamp.
func GenerateFlwTxRef() string {
	return fmt.Sprintf("flw_%d", time.Now().UnixMilli())
}
