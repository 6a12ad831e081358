package storage

import (
	"testing"
)

func TestOptionsRoundTrip(t *testing.T) {
	st, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	defer st.Close()

	opts, err := st.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts != DefaultOptions() {
		t.Errorf("empty store returned %+v, want defaults", opts)
	}

	opts.Hash = 256
	opts.Threads = 4
	opts.OwnBook = true
	opts.BookFile = "/tmp/book.bin"
	if err := st.SaveOptions(opts); err != nil {
		t.Fatalf("SaveOptions: %v", err)
	}

	loaded, err := st.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if loaded != opts {
		t.Errorf("loaded %+v, want %+v", loaded, opts)
	}
}

func TestProbeCache(t *testing.T) {
	st, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	defer st.Close()

	hash := uint64(0xABCDEF0123456789)

	if _, found, err := st.LoadProbe(hash); err != nil || found {
		t.Fatalf("LoadProbe on empty store: found=%v err=%v", found, err)
	}

	rec := ProbeRecord{WDL: 2, DTZ: 13}
	if err := st.SaveProbe(hash, rec); err != nil {
		t.Fatalf("SaveProbe: %v", err)
	}

	got, found, err := st.LoadProbe(hash)
	if err != nil {
		t.Fatalf("LoadProbe: %v", err)
	}
	if !found || got != rec {
		t.Errorf("got %+v found=%v, want %+v", got, found, rec)
	}

	// A different hash must miss.
	if _, found, _ := st.LoadProbe(hash ^ 1); found {
		t.Error("unexpected hit for different hash")
	}
}
