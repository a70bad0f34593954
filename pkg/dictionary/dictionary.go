package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Size classification thresholds, by entry count.
const (
	expandedThreshold = 2500
	massiveThreshold  = 100000
)

type SizeClass string

const (
	SizeBasic    SizeClass = "basic"
	SizeExpanded SizeClass = "expanded"
	SizeMassive  SizeClass = "massive"
)

// Dictionary is an immutable-after-load set of entries keyed by headword.
// Headword order from the source file is preserved: the fuzzy-match
// sampler treats the leading entries as the common words.
type Dictionary struct {
	entries   map[string]*Entry
	headwords []string
}

func New() *Dictionary {
	return &Dictionary{
		entries: make(map[string]*Entry),
	}
}

// Add appends a validated entry. Duplicate headwords are rejected.
func (d *Dictionary) Add(e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, ok := d.entries[e.Headword]; ok {
		return fmt.Errorf("duplicate headword %q", e.Headword)
	}
	d.entries[e.Headword] = e
	d.headwords = append(d.headwords, e.Headword)
	return nil
}

// Get returns the entry for an exact headword key, or nil.
func (d *Dictionary) Get(headword string) *Entry {
	return d.entries[headword]
}

// Has reports whether headword is an entry key.
func (d *Dictionary) Has(headword string) bool {
	_, ok := d.entries[headword]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.headwords)
}

// Headwords returns the headwords in file order. The returned slice is
// shared, callers must not modify it.
func (d *Dictionary) Headwords() []string {
	return d.headwords
}

func (d *Dictionary) SizeClass() SizeClass {
	switch {
	case d.Len() >= massiveThreshold:
		return SizeMassive
	case d.Len() >= expandedThreshold:
		return SizeExpanded
	default:
		return SizeBasic
	}
}

// Load reads a JSON object mapping headword to entry, keeping the key
// order of the file. Entries failing validation are skipped.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can not open dictionary: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("can not decode dictionary: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("dictionary %s: expected JSON object", path)
	}

	d := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("can not decode dictionary key: %w", err)
		}
		key, _ := keyTok.(string)
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("can not decode entry %q: %w", key, err)
		}
		if e.Headword == "" {
			e.Headword = key
		}
		e.POS = ParsePartOfSpeech(string(e.POS))
		if err := d.Add(&e); err != nil {
			continue
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("can not decode dictionary: %w", err)
	}
	return d, nil
}

// MarshalJSON writes the entries as a JSON object in headword order, so
// that a dictionary survives a save/load round trip unchanged.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, headword := range d.headwords {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(headword)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		entry, err := json.Marshal(d.entries[headword])
		if err != nil {
			return nil, err
		}
		buf.Write(entry)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Save writes the dictionary back to disk as indented JSON.
func (d *Dictionary) Save(path string) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("can not marshal dictionary: %w", err)
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "  "); err != nil {
		return fmt.Errorf("can not indent dictionary: %w", err)
	}
	indented.WriteByte('\n')
	if err := os.WriteFile(path, indented.Bytes(), 0o644); err != nil {
		return fmt.Errorf("can not save dictionary: %w", err)
	}
	return nil
}

// DefaultPaths is the conventional candidate chain: each well-known file
// name is tried as-is, under api/ and one directory up, largest
// dictionary first.
func DefaultPaths() []string {
	names := []string{
		"yoruba_synonyms_massive.json",
		"yoruba_synonyms_expanded.json",
		"yoruba_synonyms_static.json",
	}
	paths := make([]string, 0, len(names)*3)
	for _, name := range names {
		paths = append(paths,
			name,
			filepath.Join("api", name),
			filepath.Join("..", name),
		)
	}
	return paths
}

// LoadFirst returns the first dictionary that loads from the candidate
// chain. When every candidate fails it falls back to the built-in
// minimal dictionary padded with generated entries, so it never fails.
func LoadFirst(paths []string, logger *zap.Logger) *Dictionary {
	if len(paths) == 0 {
		paths = DefaultPaths()
	}
	for _, path := range paths {
		d, err := Load(path)
		if err != nil {
			logger.Debug("skipping dictionary candidate",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		logger.Info("loaded dictionary",
			zap.String("path", path),
			zap.Int("entries", d.Len()),
			zap.String("size_class", string(d.SizeClass())),
		)
		return d
	}
	logger.Warn("no dictionary file found, using generated fallback")
	return Fallback()
}
