package tags

import "testing"

func TestStore_ReadTags(t *testing.T) {
	dir := t.TempDir()
	path := taggedFixture(t, dir, "stored.mp3", &Tag{Title: "Stored", Artist: "Artist"})

	store := NewStore()
	tag, duration, err := store.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags() error: %v", err)
	}

	if tag.Title != "Stored" {
		t.Errorf("Title = %q, want %q", tag.Title, "Stored")
	}
	if duration <= 0 {
		t.Errorf("duration = %v, want > 0", duration)
	}
}

func TestStore_WriteTags(t *testing.T) {
	dir := t.TempDir()
	path := fixture(t, dir, "blank.mp3")

	store := NewStore()
	if err := store.WriteTags(path, &Tag{Title: "Written", Artist: "Artist"}); err != nil {
		t.Fatalf("WriteTags() error: %v", err)
	}

	tag, _, err := store.ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags() error: %v", err)
	}
	if tag.Title != "Written" {
		t.Errorf("Title = %q, want %q", tag.Title, "Written")
	}
}

func TestStore_ReadTags_MissingFile(t *testing.T) {
	store := NewStore()
	if _, _, err := store.ReadTags("/nonexistent/file.mp3"); err == nil {
		t.Error("expected error for missing file")
	}
}
