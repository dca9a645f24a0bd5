/*
Package profilefile persists built category profiles.

A profile file is a single msgpack document holding the build options and, for each
category, its label and n-grams in rank order. Loading it rebuilds a store without
touching the sample corpus, which lets profiles be learned once and shipped:

	textcat learn samples/ langs.tcp
	textcat --profiles langs.tcp classify "bonjour tout le monde"

Occurrence counts are not stored; ranks are all the classifier needs.
*/
package profilefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/bastiangx/textcat/pkg/profile"
	"github.com/bastiangx/textcat/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion changes whenever Payload changes shape.
const SchemaVersion uint16 = 1

// Extension is the expected profile file extension.
const Extension = ".tcp"

var (
	ErrSchema    = errors.New("profilefile: unsupported schema version")
	ErrSeparator = errors.New("profilefile: separator must be a single rune")
)

// Payload is the on-disk document.
type Payload struct {
	Schema             uint16            `msgpack:"schema"`
	Version            string            `msgpack:"version,omitempty"`
	Lengths            []uint8           `msgpack:"lengths"`
	Cap                uint32            `msgpack:"cap"`
	Separator          string            `msgpack:"sep"`
	DropSymbolUnigrams bool              `msgpack:"drop_symbols,omitempty"`
	Categories         []CategoryPayload `msgpack:"categories"`
}

// CategoryPayload is one category's label and rank-ordered n-grams.
type CategoryPayload struct {
	Label  string   `msgpack:"label"`
	Ngrams []string `msgpack:"ngrams"`
}

// FromStore converts st to a payload. version is free-form provenance, such
// as the corpus revision the profiles were learned from.
func FromStore(st *store.Store, version string) (*Payload, error) {
	opts := st.Options()

	capacity, err := safecast.Conv[uint32](opts.Cap)
	if err != nil {
		return nil, fmt.Errorf("profilefile: cap %d: %w", opts.Cap, err)
	}
	lengths := make([]uint8, len(opts.Lengths))
	for i, l := range opts.Lengths {
		if lengths[i], err = safecast.Conv[uint8](l); err != nil {
			return nil, fmt.Errorf("profilefile: ngram length %d: %w", l, err)
		}
	}

	payload := &Payload{
		Schema:             SchemaVersion,
		Version:            version,
		Lengths:            lengths,
		Cap:                capacity,
		Separator:          string(opts.Separator),
		DropSymbolUnigrams: opts.DropSymbolUnigrams,
	}
	for _, c := range st.Categories() {
		payload.Categories = append(payload.Categories, CategoryPayload{
			Label:  c.Label,
			Ngrams: c.Profile.Ngrams(),
		})
	}
	return payload, nil
}

// Store rebuilds a store from the payload.
func (p *Payload) Store() (*store.Store, error) {
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSchema, p.Schema, SchemaVersion)
	}
	sep := []rune(p.Separator)
	if len(sep) != 1 {
		return nil, fmt.Errorf("%w, got %q", ErrSeparator, p.Separator)
	}
	capacity, err := safecast.Conv[int](p.Cap)
	if err != nil {
		return nil, fmt.Errorf("profilefile: cap %d: %w", p.Cap, err)
	}

	opts := store.Options{
		Lengths:            make([]int, len(p.Lengths)),
		Cap:                capacity,
		Separator:          sep[0],
		DropSymbolUnigrams: p.DropSymbolUnigrams,
	}
	for i, l := range p.Lengths {
		opts.Lengths[i] = int(l)
	}

	categories := make([]store.Category, 0, len(p.Categories))
	for _, c := range p.Categories {
		ranked, err := profile.FromList(c.Ngrams, capacity)
		if err != nil {
			return nil, fmt.Errorf("profilefile: category %q: %w", c.Label, err)
		}
		categories = append(categories, store.Category{Label: c.Label, Profile: ranked})
	}
	return store.FromProfiles(categories, opts)
}

// Encode writes st to w.
func Encode(w io.Writer, st *store.Store, version string) error {
	payload, err := FromStore(st, version)
	if err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(payload)
}

// Decode reads a payload from r and rebuilds its store.
func Decode(r io.Reader) (*store.Store, error) {
	var payload Payload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("profilefile: decoding: %w", err)
	}
	return payload.Store()
}

// Save writes st to path through a temp file and a rename, so readers never
// see a partial file.
func Save(path string, st *store.Store, version string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("profilefile: creating %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, ".profiles-*")
	if err != nil {
		return fmt.Errorf("profilefile: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = Encode(f, st, version); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("profilefile: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("profilefile: %w", err)
	}
	log.Debugf("Saved %d category profiles to %s", st.Len(), path)
	return nil
}

// Load validates and reads the profile file at path.
func Load(path string) (*store.Store, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profilefile: %w", err)
	}
	defer f.Close()

	st, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %d category profiles from %s", st.Len(), path)
	return st, nil
}
