package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/message"
	"github.com/guilhermegouw/agrochat/internal/session"
)

func testSession() session.Session {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	table := message.TableData{
		Headers: []string{"Nutrient", "Rate"},
		Rows:    [][]string{{"N", "120 kg/ha"}, {"P|K", "60 kg/ha"}},
		Caption: "Maize fertilizer plan",
	}
	return session.Session{
		ID:             "s1",
		Title:          "Fertilizer for maize",
		ConversationID: "conv-9",
		CreatedAt:      created,
		UpdatedAt:      created.Add(time.Minute),
		Messages: []message.Message{
			message.NewUserMessage("How much **nitrogen**?", "data:image/png;base64,AAAA"),
			message.NewAIMessage("Apply in two splits.", message.Table{TableData: table}, message.Alert{Level: message.AlertInfo}),
		},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{format: "json", ext: "json"},
		{format: "yaml", ext: "yaml"},
		{format: "yml", ext: "yaml"},
		{format: "md", ext: "md"},
		{format: "markdown", ext: "md"},
		{format: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := NewExporter(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unsupported format")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExporter: %v", err)
			}
			if exp.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", exp.Extension(), tt.ext)
			}
		})
	}
}

func TestFromSession(t *testing.T) {
	doc := FromSession(testSession())

	if doc.ID != "s1" || doc.ConversationID != "conv-9" || len(doc.Messages) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	user := doc.Messages[0]
	if user.Type != message.TypeImage || user.Metadata == nil || user.Metadata.ImageURL == "" {
		t.Errorf("user entry should carry its image: %+v", user)
	}
	ai := doc.Messages[1]
	if ai.Type != message.TypeData || ai.Metadata == nil || ai.Metadata.TableData == nil {
		t.Fatalf("ai entry should carry its table: %+v", ai)
	}
	if ai.Metadata.AlertLevel != message.AlertInfo {
		t.Errorf("AlertLevel = %q", ai.Metadata.AlertLevel)
	}
}

func TestFromHistory(t *testing.T) {
	h := gateway.History{
		ConversationID: "conv-1",
		Messages: []gateway.BackendMessage{
			{ID: "m1", Role: gateway.RoleUser, Content: "hi"},
			{ID: "m2", Role: gateway.RoleAI, Content: "hello"},
		},
	}
	doc := FromHistory("Greeting", h)

	if doc.Title != "Greeting" || doc.ID != "conv-1" {
		t.Errorf("unexpected header: %+v", doc)
	}
	if len(doc.Messages) != 2 || doc.Messages[1].Sender != message.SenderAI {
		t.Errorf("unexpected messages: %+v", doc.Messages)
	}
	if doc.Messages[0].Metadata != nil {
		t.Error("plain turns should not have metadata")
	}
}

func TestFromHistoryKeepsProcessingMetadata(t *testing.T) {
	h := gateway.History{
		ConversationID: "conv-2",
		Messages: []gateway.BackendMessage{{
			ID: "m1", Role: gateway.RoleAI, Content: "Lime the field.", Type: "data",
			Metadata: gateway.MessageMetadata{ProcessingTime: 2.25, RetrievedDocsCount: 4},
		}},
	}
	doc := FromHistory("Liming", h)

	e := doc.Messages[0]
	if e.Type != message.TypeData {
		t.Errorf("Type = %q, want %q", e.Type, message.TypeData)
	}
	if e.Metadata == nil || e.Metadata.ProcessingTime != 2.25 || e.Metadata.RetrievedDocsCount != 4 {
		t.Errorf("Metadata = %+v", e.Metadata)
	}
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(FromSession(testSession()), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var got Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if got.Title != "Fertilizer for maize" || len(got.Messages) != 2 {
		t.Errorf("unexpected document: %+v", got)
	}
	if !strings.Contains(buf.String(), `"tableData"`) {
		t.Error("table metadata missing from json")
	}
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(FromSession(testSession()), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var got Document
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid yaml: %v", err)
	}
	if got.ConversationID != "conv-9" {
		t.Errorf("ConversationID = %q", got.ConversationID)
	}
	if len(got.Messages) != 2 || got.Messages[1].Metadata == nil {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if rows := got.Messages[1].Metadata.TableData.Rows; len(rows) != 2 || rows[0][1] != "120 kg/ha" {
		t.Errorf("table rows = %v", rows)
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestYAMLExporterReportsWriteError(t *testing.T) {
	errDisk := errors.New("disk full")
	err := (&YAMLExporter{}).Export(FromSession(testSession()), failingWriter{err: errDisk})
	if err == nil {
		t.Fatal("expected the write error to be returned")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("err = %v, want it to mention the write failure", err)
	}
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(FromSession(testSession()), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Fertilizer for maize",
		"**Conversation:** conv-9",
		"**Started:** 2026-03-01 09:30",
		"**Messages:** 2",
		"**You:**",
		"**Advisor:**",
		"_[image attached]_",
		"_Maize fertilizer plan_",
		"| Nutrient | Rate |",
		"| --- | --- |",
		"| P\\|K | 60 kg/ha |",
		"> **INFO**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
	if strings.HasSuffix(strings.TrimSpace(out), "---") {
		t.Error("no separator after the last message")
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := WriteFile(dir, "json", FromSession(testSession()))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "fertilizer-for-maize-") || filepath.Ext(path) != ".json" {
		t.Errorf("unexpected file name %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"conv-9"`) {
		t.Errorf("file content:\n%s", data)
	}

	if _, err := WriteFile(dir, "pdf", FromSession(testSession())); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Fertilizer for maize": "fertilizer-for-maize",
		"  pH 5.2?? ":          "ph-5-2",
		"Açaí   irrigação":     "açaí-irrigação",
		"???":                  "chat",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
