package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	_ "embed"

	game_constants "Wordfuse/constants/game"
)

// Small embedded fallback so the server always has something to deal from,
// even with no word list configured.
//
//go:embed default_words.txt
var embeddedWords string

// Dictionary validates submitted words and deals letter fragments. Built
// once at startup and read-only afterwards, so it is safe to share across
// rooms without locking.
type Dictionary struct {
	words     map[string]struct{}
	fragments map[string]int // fragment -> number of words containing it
	pool      []string       // stable iteration order for random picks
}

type Stats struct {
	WordCount     int `json:"word_count"`
	FragmentCount int `json:"fragment_count"`
}

// Load reads one word per line from path, or falls back to the embedded
// list when path is empty. Words are lowercased; anything containing a
// non a-z character or shorter than a fragment is skipped.
func Load(path string) (*Dictionary, error) {
	var scanner *bufio.Scanner
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening word list %s: %v", path, err)
		}
		defer f.Close()
		scanner = bufio.NewScanner(f)
	} else {
		log.Println("[DICTIONARY] No word list configured, using embedded defaults")
		scanner = bufio.NewScanner(strings.NewReader(embeddedWords))
	}

	d := &Dictionary{
		words:     make(map[string]struct{}),
		fragments: make(map[string]int),
	}

	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if !isPlainWord(word) {
			continue
		}
		if _, dup := d.words[word]; dup {
			continue
		}
		d.words[word] = struct{}{}
		d.indexFragments(word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading word list: %v", err)
	}
	if len(d.words) == 0 {
		return nil, errors.New("word list is empty")
	}

	d.pool = make([]string, 0, len(d.fragments))
	for frag := range d.fragments {
		d.pool = append(d.pool, frag)
	}

	log.Printf("[DICTIONARY] Loaded %d words, %d fragments", len(d.words), len(d.fragments))
	return d, nil
}

// indexFragments counts this word into every 2 and 3 letter substring it
// contains. Each fragment is counted once per word, so the count is the
// size of the answer pool a player has for that fragment.
func (d *Dictionary) indexFragments(word string) {
	seen := make(map[string]struct{})
	for size := game_constants.FragmentMinLength; size <= game_constants.FragmentMaxLength; size++ {
		for i := 0; i+size <= len(word); i++ {
			frag := word[i : i+size]
			if _, done := seen[frag]; done {
				continue
			}
			seen[frag] = struct{}{}
			d.fragments[frag]++
		}
	}
}

// IsValidWord reports whether the word is in the list. Case-insensitive.
func (d *Dictionary) IsValidWord(word string) bool {
	_, ok := d.words[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// RandomFragment deals a fragment contained in at least minPoolSize words,
// chosen uniformly among the qualifying ones. When no fragment meets the
// threshold it falls back to the single most frequent fragment, so a
// too-aggressive difficulty knob degrades instead of dealing nothing.
func (d *Dictionary) RandomFragment(minPoolSize int) string {
	eligible := make([]string, 0, len(d.pool))
	for _, frag := range d.pool {
		if d.fragments[frag] >= minPoolSize {
			eligible = append(eligible, frag)
		}
	}
	if len(eligible) > 0 {
		return eligible[rand.Intn(len(eligible))]
	}

	best := ""
	for _, frag := range d.pool {
		if best == "" || d.fragments[frag] > d.fragments[best] {
			best = frag
		}
	}
	return best
}

// FragmentPoolSize reports how many words contain the fragment.
func (d *Dictionary) FragmentPoolSize(fragment string) int {
	return d.fragments[strings.ToLower(fragment)]
}

func (d *Dictionary) Stats() Stats {
	return Stats{WordCount: len(d.words), FragmentCount: len(d.fragments)}
}

func isPlainWord(word string) bool {
	if len(word) < game_constants.FragmentMinLength {
		return false
	}
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
