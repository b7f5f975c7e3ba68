package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"unicode/utf8"
)

// NumericCode returns a random code of n digits without a leading zero.
func NumericCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid code length %d", n)
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))
	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return v.Add(v, low).String(), nil
}

// AvatarURL builds a ui-avatars link from the first letter of name.
func AvatarURL(name string) string {
	initial := "?"
	if s := strings.TrimSpace(name); s != "" {
		r, _ := utf8.DecodeRuneInString(s)
		initial = strings.ToUpper(string(r))
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(initial) + "&background=random&color=fff&size=360"
}
