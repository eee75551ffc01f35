package utils

import (
	"crypto/rand"
	"math/big"
)

const tempPasswordLength = 10
const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// GenerateTempPassword returns a random initial password for accounts
// created by the dean. Users must change it on first login.
func GenerateTempPassword() (string, error) {
	b := make([]byte, tempPasswordLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}
