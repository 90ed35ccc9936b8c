package domain

import (
	"crypto/sha256"
	"math/big"
	"math/rand/v2"
	"time"
)

// DateLayout is the calendar format hashed for the quote of the day.
const DateLayout = "2006-01-02"

// QuoteOfTheDayIndex returns the position, in ascending id order, of the
// quote for the UTC calendar day containing t.
//
// The SHA-256 digest of the day's YYYY-MM-DD string is read as a big-endian
// integer and reduced modulo count, so every process agrees on the pick.
func QuoteOfTheDayIndex(t time.Time, count int) (int, error) {
	if count <= 0 {
		return 0, &EmptyCollectionError{}
	}

	sum := sha256.Sum256([]byte(t.UTC().Format(DateLayout)))
	n := new(big.Int).SetBytes(sum[:])
	n.Mod(n, big.NewInt(int64(count)))

	return int(n.Int64()), nil
}

// RandomIndex returns a uniformly random position in [0, count).
func RandomIndex(count int) (int, error) {
	return RandomIndexWith(rand.IntN, count)
}

// RandomIndexWith is RandomIndex with an explicit source; intn must behave
// like rand.IntN.
func RandomIndexWith(intn func(int) int, count int) (int, error) {
	if count <= 0 {
		return 0, &EmptyCollectionError{}
	}

	return intn(count), nil
}
