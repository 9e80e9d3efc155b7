package dataset

import (
	"encoding/json"
	"fmt"
)

// Record is one news item within a dataset file.
//
// Title and Summary are always present in the serialized form. RawText,
// ImageURL, and ImagePrompt are optional: a nil pointer means the key was
// absent and stays absent on rewrite. Keys this tool does not know about are
// carried through Extra untouched so rewrites never lose data.
type Record struct {
	ID          string
	Title       string
	Summary     string
	RawText     *string
	ImageURL    *string
	ImagePrompt *string

	Extra map[string]json.RawMessage
}

// knownKeys are the record fields handled explicitly; everything else is
// preserved verbatim in Extra.
var knownKeys = map[string]struct{}{
	"id":           {},
	"title":        {},
	"summary":      {},
	"raw_text":     {},
	"image_url":    {},
	"image_prompt": {},
}

// ImageURLString returns the image_url value, or "" when the key is absent.
func (r *Record) ImageURLString() string {
	if r.ImageURL == nil {
		return ""
	}
	return *r.ImageURL
}

// SetImageURL sets image_url, creating the key if it was absent.
func (r *Record) SetImageURL(path string) {
	r.ImageURL = &path
}

// SetImagePrompt sets image_prompt, creating the key if it was absent.
func (r *Record) SetImagePrompt(prompt string) {
	r.ImagePrompt = &prompt
}

// RawTextString returns the raw_text value, or "" when the key is absent.
func (r *Record) RawTextString() string {
	if r.RawText == nil {
		return ""
	}
	return *r.RawText
}

// SetRawText replaces raw_text. It never creates the key: records without
// raw_text stay without it.
func (r *Record) SetRawText(text string) {
	if r.RawText != nil {
		r.RawText = &text
	}
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	takeString := func(key string) (string, bool, error) {
		value, ok := raw[key]
		if !ok {
			return "", false, nil
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", false, fmt.Errorf("record field %q: %w", key, err)
		}
		return s, true, nil
	}

	var err error
	if r.ID, _, err = takeString("id"); err != nil {
		return err
	}
	if r.Title, _, err = takeString("title"); err != nil {
		return err
	}
	if r.Summary, _, err = takeString("summary"); err != nil {
		return err
	}
	if value, ok, err := takeString("raw_text"); err != nil {
		return err
	} else if ok {
		r.RawText = &value
	}
	if value, ok, err := takeString("image_url"); err != nil {
		return err
	} else if ok {
		r.ImageURL = &value
	}
	if value, ok, err := takeString("image_prompt"); err != nil {
		return err
	} else if ok {
		r.ImagePrompt = &value
	}

	r.Extra = nil
	for key, value := range raw {
		if _, known := knownKeys[key]; known {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[key] = value
	}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Extra)+6)
	for key, value := range r.Extra {
		out[key] = value
	}

	putString := func(key, value string) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("record field %q: %w", key, err)
		}
		out[key] = encoded
		return nil
	}

	if r.ID != "" {
		if err := putString("id", r.ID); err != nil {
			return nil, err
		}
	}
	if err := putString("title", r.Title); err != nil {
		return nil, err
	}
	if err := putString("summary", r.Summary); err != nil {
		return nil, err
	}
	if r.RawText != nil {
		if err := putString("raw_text", *r.RawText); err != nil {
			return nil, err
		}
	}
	if r.ImageURL != nil {
		if err := putString("image_url", *r.ImageURL); err != nil {
			return nil, err
		}
	}
	if r.ImagePrompt != nil {
		if err := putString("image_prompt", *r.ImagePrompt); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}
