package timeline

import "testing"

func TestAppendAssignsIDsAndPreservesOrder(t *testing.T) {
	store := NewStore()

	first := store.Append(Entry{Speaker: SpeakerUser, Text: "hello"})
	second := store.Append(Entry{Speaker: SpeakerAssistant, Text: "hi"})

	if first == "" || second == "" {
		t.Fatalf("expected IDs to be assigned, got %q and %q", first, second)
	}
	if first == second {
		t.Fatalf("expected distinct IDs, got %q twice", first)
	}

	entries := store.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].ID != first || entries[1].ID != second {
		t.Fatalf("expected entries in append order, got %q then %q", entries[0].ID, entries[1].ID)
	}
}

func TestMutateLastFoldsChunksIntoTail(t *testing.T) {
	store := NewStore()
	id := store.Append(Entry{Speaker: SpeakerAssistant})

	for _, chunk := range []string{"Hello", ", Srabon."} {
		if ok := store.MutateLast(id, func(entry *Entry) { entry.Text += chunk }); !ok {
			t.Fatalf("expected tail mutation to apply for chunk %q", chunk)
		}
	}

	entry, ok := store.Entry(id)
	if !ok {
		t.Fatalf("expected entry %q to exist", id)
	}
	if entry.Text != "Hello, Srabon." {
		t.Fatalf("expected chunks concatenated without separators, got %q", entry.Text)
	}
}

func TestMutateLastDropsStaleMutations(t *testing.T) {
	store := NewStore()
	stale := store.Append(Entry{Speaker: SpeakerAssistant, Text: "partial"})
	tail := store.Append(Entry{Speaker: SpeakerUser, Text: "next"})

	if ok := store.MutateLast(stale, func(entry *Entry) { entry.Text += " more" }); ok {
		t.Fatalf("expected mutation against superseded entry to be dropped")
	}

	entries := store.Snapshot()
	if entries[0].Text != "partial" {
		t.Fatalf("expected superseded entry untouched, got %q", entries[0].Text)
	}
	if entries[1].ID != tail || entries[1].Text != "next" {
		t.Fatalf("expected tail entry untouched, got %+v", entries[1])
	}
}

func TestReplaceKeepsPositionAndID(t *testing.T) {
	store := NewStore()
	id := store.Append(Entry{Speaker: SpeakerAssistant, Text: "half-formed"})
	store.Append(Entry{Speaker: SpeakerUser, Text: "tail"})

	if ok := store.Replace(id, Entry{Speaker: SpeakerAssistant, Text: "apology"}); !ok {
		t.Fatalf("expected replace to find entry %q", id)
	}

	entries := store.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected replace to keep entry count, got %d", len(entries))
	}
	if entries[0].ID != id || entries[0].Text != "apology" {
		t.Fatalf("expected replaced entry in place with original ID, got %+v", entries[0])
	}
}

func TestSnapshotIsolatesWidgetCells(t *testing.T) {
	store := NewStore()
	store.Append(Entry{
		Speaker: SpeakerAssistant,
		Widget:  &Widget{Game: "tic-tac-toe", Cells: [][]string{{"X", "", ""}, {"", "", ""}, {"", "", ""}}},
	})

	snapshot := store.Snapshot()
	snapshot[0].Widget.Cells[0][0] = "O"

	entries := store.Snapshot()
	if entries[0].Widget.Cells[0][0] != "X" {
		t.Fatalf("expected stored widget cells unaffected by snapshot mutation, got %q", entries[0].Widget.Cells[0][0])
	}
}
