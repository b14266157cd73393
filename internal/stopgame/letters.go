package stopgame

import "math/rand"

// Alphabet - the Spanish 27-letter alphabet the round letter is drawn from.
var Alphabet = []rune("ABCDEFGHIJKLMNÑOPQRSTUVWXYZ")

// GenerateLetter draws a round letter uniformly at random. Letters may repeat
// across rounds of a match; there is deliberately no repeat check.
func GenerateLetter() string {
	return string(Alphabet[rand.Intn(len(Alphabet))]) //nolint: gosec // gameplay randomness
}
