// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/project-lux/ner-engine/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) *Store {
	t.Helper()
	cfg := types.SessionConfig{
		DBPath:     filepath.Join(t.TempDir(), "ner.db"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult() *types.Result {
	return &types.Result{
		AnnotatedText: "[Tom](PERSON) went to [Rome](LOCATION).",
		Entities: []types.Entity{
			{Text: "Tom", Label: "PERSON", StartPos: 0, EndPos: 3, Confidence: 0.9},
			{Text: "Rome", Label: "LOCATION", StartPos: 12, EndPos: 16, WikidataID: "Q220", Description: "capital city of Italy", Confidence: 0.95},
		},
	}
}

// --- Save / Get ---

func TestSaveAndGet(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	id, err := store.Save(ctx, "Tom went to Rome.", []string{"PERSON", "LOCATION"}, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned empty ID")
	}

	sess, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Text != "Tom went to Rome." {
		t.Errorf("Text = %q", sess.Text)
	}
	if sess.AnnotatedText != "[Tom](PERSON) went to [Rome](LOCATION)." {
		t.Errorf("AnnotatedText = %q", sess.AnnotatedText)
	}
	if len(sess.Labels) != 2 || sess.Labels[0] != "PERSON" {
		t.Errorf("Labels = %v", sess.Labels)
	}
	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	if len(sess.Entities) != 2 {
		t.Fatalf("len(Entities) = %d, want 2", len(sess.Entities))
	}
	// Document order is preserved.
	if sess.Entities[0].Text != "Tom" || sess.Entities[1].Text != "Rome" {
		t.Errorf("entity order = %q, %q", sess.Entities[0].Text, sess.Entities[1].Text)
	}
	rome := sess.Entities[1]
	if rome.WikidataID != "Q220" || rome.Confidence != 0.95 || rome.StartPos != 12 {
		t.Errorf("rome = %+v", rome)
	}
}

func TestGetUnknownSession(t *testing.T) {
	store := testSetup(t)
	if _, err := store.Get(context.Background(), "no-such-id"); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestSaveNilResult(t *testing.T) {
	store := testSetup(t)
	if _, err := store.Save(context.Background(), "text", nil, nil); err == nil {
		t.Error("expected error for nil result")
	}
}

// --- List ---

func TestList(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Save(ctx, "text", []string{"PERSON"}, sampleResult()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	sessions, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("len(sessions) = %d, want 2", len(sessions))
	}
	// List omits entity records.
	for _, sess := range sessions {
		if sess.Entities != nil {
			t.Errorf("session %s carries entities in list view", sess.ID)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

// --- UpdateEntity ---

func TestUpdateEntity(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	id, err := store.Save(ctx, "text", []string{"PERSON"}, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	newID := "Q1048"
	newDesc := "Roman politician"
	err = store.UpdateEntity(ctx, id, 1, EntityUpdate{WikidataID: &newID, Description: &newDesc})
	if err != nil {
		t.Fatalf("UpdateEntity: %v", err)
	}

	sess, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	rome := sess.Entities[1]
	if rome.WikidataID != "Q1048" || rome.Description != "Roman politician" {
		t.Errorf("rome after update = %+v", rome)
	}
	// Untouched fields survive.
	if rome.Label != "LOCATION" || rome.Confidence != 0.95 {
		t.Errorf("unrelated fields changed: %+v", rome)
	}
}

func TestUpdateEntityNoFields(t *testing.T) {
	store := testSetup(t)
	if err := store.UpdateEntity(context.Background(), "some-id", 0, EntityUpdate{}); err == nil {
		t.Error("expected error for empty update")
	}
}

func TestUpdateEntityUnknownPosition(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	id, err := store.Save(ctx, "text", []string{"PERSON"}, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	label := "ORG"
	if err := store.UpdateEntity(ctx, id, 99, EntityUpdate{Label: &label}); err == nil {
		t.Error("expected error for unknown position")
	}
}

// --- ExportYAML ---

func TestExportYAML(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	id, err := store.Save(ctx, "Tom went to Rome.", []string{"PERSON", "LOCATION"}, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(t.TempDir(), "export.yaml")
	if err := store.ExportYAML(ctx, id, path); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var sess types.Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if sess.ID != id || len(sess.Entities) != 2 {
		t.Errorf("exported session = %+v", sess)
	}
	if !strings.Contains(string(data), "Q220") {
		t.Errorf("export missing Wikidata ID:\n%s", data)
	}
}
