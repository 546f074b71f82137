package config

import (
	"os"

	"Wordfuse/services/dictionary"
)

// LoadDictionary builds the word dictionary from the WORDS_FILE env path,
// falling back to the embedded list when unset.
func LoadDictionary() (*dictionary.Dictionary, error) {
	return dictionary.Load(os.Getenv("WORDS_FILE"))
}
