package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/dustin/go-humanize"
)

// Exit codes
const (
	Success = iota
	SetupFailed
	CmdLineOptionError
	ArchiveReadError
	UploadFailed
)

// test environment constant
const testEnv = "test"

// signature of an s3 uploader func; returns the number of bytes shipped.
type uploader func(*archiveEntry) (int64, error)

// upload fetches archive entries from the uploads chan and attempts to upload
// them. Failures land in the failed list; successful byte counts accumulate
// in sent.
func upload(fn uploader, uploads chan *archiveEntry, failed *syncedList, sent *atomic.Int64, wgWorkers *sync.WaitGroup) {
	defer wgWorkers.Done()

	for entry := range uploads {
		if opts.dryRun {
			say(fmt.Sprintf("Pretending to upload %s", entry.key), ".")
			continue
		}

		n, err := fn(entry)
		if err != nil {
			failed.add(entry.key)
			say(fmt.Sprintf("Failed to upload %s: %v", entry.key, err), "F")
			continue
		}

		sent.Add(n)
		say(fmt.Sprintf("Uploaded %s (%s)", entry.key, humanize.Bytes(uint64(n))), ".")
	}
}

// s3putGen generates an S3 upload function using the S3Uploader interface.
// In test mode, it returns a no-op function.
// In production, it uses the global s3Uploader to perform actual uploads.
func s3putGen(ctx context.Context) uploader {
	return s3putGenWithUploader(ctx, s3Uploader)
}

// s3putGenWithUploader generates an S3 upload function using the provided uploader.
// This allows for dependency injection in tests.
func s3putGenWithUploader(ctx context.Context, u S3Uploader) uploader {
	if appEnv == testEnv && u == nil {
		return func(_ *archiveEntry) (int64, error) {
			return 0, nil
		}
	}

	if u == nil {
		return func(_ *archiveEntry) (int64, error) {
			return 0, fmt.Errorf("s3 uploader is not initialized")
		}
	}

	return func(entry *archiveEntry) (int64, error) {
		data := entry.data
		contentType := contentTypeFor(entry.key, data)

		// gzip the file if appropriate
		var contentEncoding *string
		if !opts.NoCompress && isCompressible(contentType) {
			gzipped, err := gzipBytes(data)
			if err != nil {
				return 0, fmt.Errorf("compression error: %w", err)
			}
			data = gzipped
			contentEncoding = aws.String("gzip")
		}

		size := int64(len(data))
		input := &UploadInput{
			Bucket:          opts.BucketName,
			Key:             entry.key,
			Body:            bytes.NewReader(data),
			ContentType:     aws.String(contentType),
			ContentEncoding: contentEncoding,
			ContentLength:   aws.Int64(size),
			CacheControl:    aws.String(opts.CacheControl),
			ACL:             opts.ACL,
		}

		if _, err := u.Upload(ctx, input); err != nil {
			return 0, err
		}

		return size, nil
	}
}

// deployTarball walks the archive in r and fans the entries out to a pool of
// Concurrency upload workers. It returns the number of entries dispatched.
// Cancelling ctx stops the dispatch; entries already on the channel drain.
func deployTarball(ctx context.Context, r io.Reader, fn uploader, failed *syncedList, sent *atomic.Int64) (int, error) {
	uploads := make(chan *archiveEntry)
	wgWorkers := new(sync.WaitGroup)

	wgWorkers.Add(opts.Concurrency)
	for i := 0; i < opts.Concurrency; i++ {
		go upload(fn, uploads, failed, sent, wgWorkers)
	}

	count, err := walkTarball(r, opts.Prefix, opts.StripComponents, func(entry *archiveEntry) error {
		select {
		case uploads <- entry:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(uploads)
	wgWorkers.Wait()

	return count, err
}

func main() {
	if err := validateCmdLineFlags(opts); err != nil {
		fmt.Printf("Required field missing: %v.\n\nUsage:\n", err)
		flag.PrintDefaults()
		os.Exit(CmdLineOptionError)
	}

	var in io.Reader = os.Stdin
	if opts.archive != "-" {
		f, err := os.Open(opts.archive) // #nosec G304 - archive path comes from the command line
		if err != nil {
			abort(err)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	say(fmt.Sprintf("Unpacking %s to '%s'", opts.archive, opts.BucketName), "Uploading ")

	failed, sent := &syncedList{}, &atomic.Int64{}

	// An interrupt stops the dispatch only; puts get a detached context so
	// jobs already handed to a worker still finish.
	count, err := deployTarball(ctx, in, s3putGen(context.WithoutCancel(ctx)), failed, sent)

	uploaded := count - failed.len()
	say(fmt.Sprintf("Uploaded %d files (%s)", uploaded, humanize.Bytes(uint64(sent.Load()))),
		fmt.Sprintf(" done: %d files (%s)\n", uploaded, humanize.Bytes(uint64(sent.Load()))))

	switch {
	case errors.Is(err, context.Canceled):
		warn("Upload cancelled")
		os.Exit(UploadFailed)
	case err != nil:
		warn("%v", err)
		os.Exit(ArchiveReadError)
	case failed.len() > 0:
		warn("%d uploads failed", failed.len())
		os.Exit(UploadFailed)
	}
}
