package main

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseInt64Numeric(t *testing.T) {
	v, err := parseInt64(json.RawMessage("12345"))
	if err != nil {
		t.Fatalf("parseInt64 error: %v", err)
	}
	if v != 12345 {
		t.Fatalf("expected 12345, got %d", v)
	}
}

func TestParseInt64String(t *testing.T) {
	v, err := parseInt64(json.RawMessage(`"67890"`))
	if err != nil {
		t.Fatalf("parseInt64 error: %v", err)
	}
	if v != 67890 {
		t.Fatalf("expected 67890, got %d", v)
	}
}

func TestParseInt64Invalid(t *testing.T) {
	for _, raw := range []string{`{"oops":1}`, `""`, `1.5`, `"abc"`} {
		if _, err := parseInt64(json.RawMessage(raw)); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestDecodeJob(t *testing.T) {
	job, id, err := decodeJob(`{"class":"GoWorker","args":["42"],"queue":"default","jid":"abc"}`)
	if err != nil {
		t.Fatalf("decodeJob error: %v", err)
	}
	if id != 42 || job.JID != "abc" {
		t.Fatalf("unexpected job %#v id %d", job, id)
	}
}

func TestDecodeJobSkipsOtherClasses(t *testing.T) {
	if _, _, err := decodeJob(`{"class":"MailerWorker","args":[1]}`); !errors.Is(err, errSkipJob) {
		t.Fatalf("expected errSkipJob, got %v", err)
	}
}

func TestDecodeJobRejectsBadPayloads(t *testing.T) {
	for _, payload := range []string{
		`not json`,
		`{"class":"GoWorker","args":[]}`,
		`{"class":"RubyWorker","args":[0]}`,
		`{"class":"RubyWorker","args":[{"id":1}]}`,
	} {
		if _, _, err := decodeJob(payload); err == nil || errors.Is(err, errSkipJob) {
			t.Fatalf("expected decode error for %s, got %v", payload, err)
		}
	}
}
