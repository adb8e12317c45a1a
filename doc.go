/*
Untar to S3 is a small tool for unpacking a tarball straight into an S3 bucket.

It reads a tar archive (plain or gzip-compressed, detected automatically),
skips everything that is not a regular file, and uploads each file to the
bucket under an optional key prefix. Leading path components can be stripped
off entry names, which is handy for tarballs that wrap everything in a
top-level directory.

Text-like assets (html, css, js, json, svg and friends) are gzipped before
upload and get a matching Content-Encoding header, so the bucket can sit
directly behind a CDN. Every object gets a Cache-Control header and a canned
ACL, both configurable.

Uploads run on a fixed-size worker pool; a failed upload is reported at the
end and reflected in the exit code, but never retried. There is no state
between runs: the tool does one pass over the archive and exits.

This is a Go port of an older Python deploy script, rebuilt on the AWS SDK v2.
*/
package main
