package dataset

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordRoundTripPreservesUnknownKeys(t *testing.T) {
	input := `{
  "id": "a1b2c3d4",
  "title": "Headline",
  "summary": "Summary text",
  "raw_text": "Body",
  "image_url": "images/news/a1b2c3d4.png",
  "source": "wire",
  "published_at": "2025-03-01T09:00:00Z",
  "tags": ["politics", "economy"]
}`

	var record Record
	if err := json.Unmarshal([]byte(input), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if record.ID != "a1b2c3d4" || record.Title != "Headline" {
		t.Fatalf("known fields not parsed: %+v", record)
	}
	if record.RawTextString() != "Body" {
		t.Fatalf("raw_text = %q, want Body", record.RawTextString())
	}
	if len(record.Extra) != 3 {
		t.Fatalf("expected 3 unknown keys, got %d: %v", len(record.Extra), record.Extra)
	}

	out, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if raw["source"] != "wire" {
		t.Fatalf("unknown key source lost: %v", raw)
	}
	if raw["published_at"] != "2025-03-01T09:00:00Z" {
		t.Fatalf("unknown key published_at lost: %v", raw)
	}
	if _, ok := raw["tags"]; !ok {
		t.Fatalf("unknown key tags lost: %v", raw)
	}
}

func TestRecordOptionalKeysStayAbsent(t *testing.T) {
	var record Record
	if err := json.Unmarshal([]byte(`{"title": "T", "summary": "S"}`), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if record.RawText != nil || record.ImageURL != nil || record.ImagePrompt != nil {
		t.Fatalf("optional fields should be nil when absent: %+v", record)
	}

	out, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	serialized := string(out)
	for _, key := range []string{"raw_text", "image_url", "image_prompt", "id"} {
		if strings.Contains(serialized, `"`+key+`"`) {
			t.Fatalf("absent key %q appeared in output: %s", key, serialized)
		}
	}
	if !strings.Contains(serialized, `"title"`) || !strings.Contains(serialized, `"summary"`) {
		t.Fatalf("title and summary must always serialize: %s", serialized)
	}
}

func TestSetRawTextNeverCreatesKey(t *testing.T) {
	var record Record
	record.SetRawText("cleaned")
	if record.RawText != nil {
		t.Fatal("SetRawText created raw_text on a record without one")
	}

	existing := "original"
	record.RawText = &existing
	record.SetRawText("cleaned")
	if record.RawTextString() != "cleaned" {
		t.Fatalf("raw_text = %q, want cleaned", record.RawTextString())
	}
}

func TestSetImageURLCreatesKey(t *testing.T) {
	var record Record
	record.SetImageURL("images/news/abc.png")
	if record.ImageURLString() != "images/news/abc.png" {
		t.Fatalf("image_url = %q", record.ImageURLString())
	}
}

func TestRecordRejectsNonStringField(t *testing.T) {
	var record Record
	err := json.Unmarshal([]byte(`{"id": 7, "title": "T", "summary": "S"}`), &record)
	if err == nil {
		t.Fatal("expected error for numeric id")
	}
}
