package main

import (
	"path/filepath"
	"testing"
)

func TestOptionsMerge(t *testing.T) {
	o := &options{BucketName: "original", Concurrency: 50, CacheControl: "public, max-age=31536000"}
	o.merge(&options{BucketName: "other", Prefix: "staging", StripComponents: 2, NoCompress: true})

	if o.BucketName != "other" {
		t.Errorf("expected bucket to be overridden, got %s", o.BucketName)
	}
	if o.Prefix != "staging" {
		t.Errorf("expected prefix staging, got %s", o.Prefix)
	}
	if o.StripComponents != 2 {
		t.Errorf("expected strip-components 2, got %d", o.StripComponents)
	}
	if !o.NoCompress {
		t.Error("expected no-compress to be set")
	}
	if o.Concurrency != 50 {
		t.Errorf("expected concurrency to survive the merge, got %d", o.Concurrency)
	}
	if o.CacheControl != "public, max-age=31536000" {
		t.Errorf("expected cache-control to survive the merge, got %s", o.CacheControl)
	}
}

func TestOptionsDumpRestore(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "untar-to-s3.json")

	saved := &options{
		BucketName:      "my-bucket",
		Prefix:          "production",
		Region:          "us-west-2",
		ACL:             "private",
		Concurrency:     25,
		StripComponents: 1,
		NoCompress:      true,
	}
	if err := saved.dump(fname); err != nil {
		t.Fatalf("dump: %v", err)
	}

	restored := &options{Concurrency: 50}
	if err := restored.restore(fname); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.BucketName != "my-bucket" || restored.Prefix != "production" {
		t.Errorf("unexpected restored options: %+v", restored)
	}
	if restored.Concurrency != 25 {
		t.Errorf("expected concurrency 25, got %d", restored.Concurrency)
	}
	if restored.ACL != "private" {
		t.Errorf("expected private ACL, got %s", restored.ACL)
	}
	if restored.StripComponents != 1 || !restored.NoCompress {
		t.Errorf("unexpected restored options: %+v", restored)
	}
}

func TestOptionsRestoreMissingFile(t *testing.T) {
	o := &options{}
	if err := o.restore(filepath.Join(t.TempDir(), "does-not-exist.json")); err != nil {
		t.Errorf("expected missing config file to be ignored, got %v", err)
	}
}
