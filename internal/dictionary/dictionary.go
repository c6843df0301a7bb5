// Package dictionary loads the Chamorro dictionary and its spelling
// variants from their JSON exports.
package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

// Dictionary maps headwords to their definitions and known variants.
type Dictionary struct {
	definitions map[string]json.RawMessage
	variants    map[string][]string
	headwords   []string
}

// New builds a Dictionary from decoded definitions. Headwords must be
// non-blank.
func New(definitions map[string]json.RawMessage) (*Dictionary, error) {
	headwords := make([]string, 0, len(definitions))
	for hw := range definitions {
		if strings.TrimSpace(hw) == "" {
			return nil, apperrors.NewValidationError("dictionary contains a blank headword")
		}
		headwords = append(headwords, hw)
	}
	sort.Strings(headwords)

	return &Dictionary{
		definitions: definitions,
		variants:    map[string][]string{},
		headwords:   headwords,
	}, nil
}

// Load reads ChamorroDictionary.json: an object of headword to definition.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}

	var definitions map[string]json.RawMessage
	if err := json.Unmarshal(data, &definitions); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	if definitions == nil {
		return nil, apperrors.NewValidationError("dictionary file holds no object")
	}

	return New(definitions)
}

// Open loads the dictionary and, when variantsPath names an existing file,
// its variants. A missing variants file is only logged.
func Open(path, variantsPath string) (*Dictionary, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	logger := observability.GetLogger()

	if variantsPath == "" {
		return d, nil
	}
	variants, err := LoadVariants(variantsPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("path", variantsPath).Msg("variants file not found, continuing without variants")
		return d, nil
	}
	if err != nil {
		return nil, err
	}

	if dropped := d.SetVariants(variants); dropped > 0 {
		logger.Warn().Int("dropped", dropped).Msg("variants for unknown headwords ignored")
	}
	logger.Info().Int("headwords", d.Len()).Int("with_variants", len(d.variants)).Msg("dictionary loaded")
	return d, nil
}

// LoadVariants reads ChamorroVariants.json: an object of headword to the
// spellings recovered for it.
func LoadVariants(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read variants file: %w", err)
	}

	var variants map[string][]string
	if err := json.Unmarshal(data, &variants); err != nil {
		return nil, fmt.Errorf("failed to parse variants: %w", err)
	}
	return variants, nil
}

// SetVariants attaches spelling variants. Variants for headwords that are
// not in the dictionary are dropped and counted in the return value.
func (d *Dictionary) SetVariants(variants map[string][]string) (dropped int) {
	d.variants = make(map[string][]string, len(variants))
	for hw, vs := range variants {
		if _, ok := d.definitions[hw]; !ok {
			dropped++
			continue
		}
		d.variants[hw] = vs
	}
	return dropped
}

// Len returns the number of headwords.
func (d *Dictionary) Len() int { return len(d.headwords) }

// Headwords returns every headword in sorted order. The slice is shared.
func (d *Dictionary) Headwords() []string { return d.headwords }

// Has reports whether headword is in the dictionary.
func (d *Dictionary) Has(headword string) bool {
	_, ok := d.definitions[headword]
	return ok
}

// Variants returns the recorded spelling variants of headword.
func (d *Dictionary) Variants(headword string) []string { return d.variants[headword] }

// Entry returns the full entry for headword.
func (d *Dictionary) Entry(headword string) (entities.Entry, error) {
	def, ok := d.definitions[headword]
	if !ok {
		return entities.Entry{}, apperrors.NewNotFoundError(fmt.Sprintf("headword %q not in dictionary", headword))
	}
	return entities.Entry{
		Headword:   headword,
		Definition: def,
		Variants:   d.variants[headword],
	}, nil
}
