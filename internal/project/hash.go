package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш содержимого файла
type Digest [32]byte

// HashContent хеширует содержимое файла.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine строит ключ кэша: H( content || salt1 || salt2 ... ).
// Соли: параметры, влияющие на результат (версия, strict, max_errors).
func Combine(content Digest, salts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, s := range salts {
		_, _ = h.Write(s)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
