package utils

import (
	"crypto/rand"
	"math/big"
)

const pinCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GeneratePIN(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(pinCharset))))
		if err != nil {
			return "", err
		}
		b[i] = pinCharset[num.Int64()]
	}
	return string(b), nil
}
