package orphans

import (
	"sort"
	"strings"
)

// Kind is the asset class of an object key, derived from its extension.
type Kind string

const (
	KindPrimaryEbook   Kind = "primary_ebook"
	KindSecondaryEbook Kind = "secondary_ebook"
	KindAudiobook      Kind = "audiobook"
	KindUnrecognized   Kind = "unrecognized"
)

type extension struct {
	suffix string
	kind   Kind
}

// Classifier maps object keys to kinds by case-insensitive extension.
type Classifier struct {
	exts []extension
}

// NewClassifier builds a classifier from extension lists. Extensions may be
// given with or without the leading dot.
func NewClassifier(primary, secondary, audiobook []string) *Classifier {
	c := &Classifier{}
	c.add(KindPrimaryEbook, primary)
	c.add(KindSecondaryEbook, secondary)
	c.add(KindAudiobook, audiobook)
	// Longest suffix first so ".tar.gz" style extensions win over ".gz".
	sort.SliceStable(c.exts, func(i, j int) bool {
		return len(c.exts[i].suffix) > len(c.exts[j].suffix)
	})
	return c
}

// DefaultClassifier uses .epub, .mobi/.azw3/.azw and .m4b/.m4a/.mp3.
func DefaultClassifier() *Classifier {
	return NewClassifier(
		[]string{".epub"},
		[]string{".mobi", ".azw3", ".azw"},
		[]string{".m4b", ".m4a", ".mp3"},
	)
}

func (c *Classifier) add(kind Kind, exts []string) {
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		c.exts = append(c.exts, extension{suffix: e, kind: kind})
	}
}

// Classify returns the kind of key.
func (c *Classifier) Classify(key string) Kind {
	_, kind := c.Split(key)
	return kind
}

// Split returns key without its recognized extension, and the key's kind.
// An unrecognized key is returned whole.
func (c *Classifier) Split(key string) (string, Kind) {
	for _, e := range c.exts {
		n := len(key) - len(e.suffix)
		if n >= 0 && strings.EqualFold(key[n:], e.suffix) {
			return key[:n], e.kind
		}
	}
	return key, KindUnrecognized
}
