package randstr

import "crypto/rand"

type generator struct {
	letters []byte
}

func New(letters []byte) *generator {
	return &generator{letters: letters}
}

func (g *generator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	for i := range b {
		b[i] = g.letters[int(b[i])%len(g.letters)]
	}

	return string(b)
}
