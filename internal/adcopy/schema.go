package adcopy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"codeberg.org/adcraft/server/internal/llm"
)

const (
	fieldTone                 = "tone"
	fieldHeadline             = "headline"
	fieldDescription          = "description"
	fieldPrimaryTextParagraph = "primaryTextParagraph"
	fieldPrimaryTextBullets   = "primaryTextBullets"
)

var requiredFields = []string{
	fieldTone,
	fieldHeadline,
	fieldDescription,
	fieldPrimaryTextParagraph,
	fieldPrimaryTextBullets,
}

// declared output shape: an array of objects with five required strings
func ResponseSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeArray,
		Items: &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				fieldTone:                 {Type: llm.TypeString, Description: "The marketing angle used"},
				fieldHeadline:             {Type: llm.TypeString, Description: "Bold headline (max 40 chars)"},
				fieldDescription:          {Type: llm.TypeString, Description: "Link description/sub-headline"},
				fieldPrimaryTextParagraph: {Type: llm.TypeString, Description: "Main copy in paragraph format with emojis"},
				fieldPrimaryTextBullets:   {Type: llm.TypeString, Description: "Main copy in bullet-point format with emojis"},
			},
			PropertyOrdering: slices.Clone(requiredFields),
			Required:         slices.Clone(requiredFields),
		},
	}
}

// parses the provider's reply; any defect rejects the whole document
func parseVariants(text string) ([]Variant, error) {
	data := []byte(strings.TrimSpace(text))

	if len(data) == 0 {
		return nil, newGenerationError(KindEmptyResponse, true, "provider returned an empty body")
	}

	if !json.Valid(data) {
		return nil, newGenerationError(KindMalformedJSON, false, "response is not a single JSON document")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, newGenerationError(KindSchemaMismatch, false, "response is not a JSON array: %w", err)
	}

	if len(items) == 0 {
		return nil, newGenerationError(KindSchemaMismatch, false, "response contains no variants")
	}

	variants := make([]Variant, 0, len(items))

	for i, item := range items {
		variant, err := parseVariant(item)
		if err != nil {
			return nil, newGenerationError(KindSchemaMismatch, false, "variant %d: %w", i, err)
		}

		variants = append(variants, variant)
	}

	return variants, nil
}

func parseVariant(item json.RawMessage) (Variant, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return Variant{}, fmt.Errorf("not a JSON object")
	}

	values := make(map[string]string, len(requiredFields))

	for _, name := range requiredFields {
		raw, ok := fields[name]
		if !ok {
			return Variant{}, fmt.Errorf("missing field %q", name)
		}

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '"' {
			return Variant{}, fmt.Errorf("field %q is not a string", name)
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return Variant{}, fmt.Errorf("field %q: %w", name, err)
		}

		if strings.TrimSpace(value) == "" {
			return Variant{}, fmt.Errorf("field %q is empty", name)
		}

		values[name] = value
	}

	return Variant{
		Tone:                 values[fieldTone],
		Headline:             values[fieldHeadline],
		Description:          values[fieldDescription],
		PrimaryTextParagraph: values[fieldPrimaryTextParagraph],
		PrimaryTextBullets:   values[fieldPrimaryTextBullets],
	}, nil
}
