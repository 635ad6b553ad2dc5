package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestBundle(t *testing.T) {
	raw, err := Bundle([]Entry{
		{Name: "donations.csv", Data: []byte("S.No\n")},
		{Name: "donations.xlsx", Data: []byte{0x50, 0x4b}},
	})
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(zr.File) != 2 || zr.File[0].Name != "donations.csv" {
		t.Fatalf("unexpected entries: %v", zr.File)
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "S.No\n" {
		t.Fatalf("entry body = %q", body)
	}
}

func TestBundleRejectsDuplicates(t *testing.T) {
	if _, err := Bundle([]Entry{{Name: "a"}, {Name: "a"}}); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, err := Bundle([]Entry{{Name: ""}}); err == nil {
		t.Fatal("expected empty name error")
	}
}
