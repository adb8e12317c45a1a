package main

import (
	"encoding/json"
	"fmt"
	"os"
)

type options struct {
	BucketName   string `json:"bucket_name,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	Region       string `json:"region,omitempty"`
	Profile      string `json:"profile,omitempty"`
	CacheControl string `json:"cache_control,omitempty"`
	ACL          string `json:"acl,omitempty"`
	cfgFile      string

	Concurrency     int  `json:"concurrency,omitempty"`
	StripComponents int  `json:"strip_components,omitempty"`
	NoCompress      bool `json:"no_compress,omitempty"`

	// archive is the positional argument; "-" means stdin.
	archive string

	dryRun, verbose, quiet,
	saveCfg, version bool
}

func (o *options) dump(fname string) error {
	f, err := os.Create(fname) // #nosec G304 - file path from user config is expected
	if err != nil {
		return err
	}
	defer func() {
		err2 := f.Close()
		if err == nil {
			err = err2
		} else if err2 != nil {
			err = fmt.Errorf("%w; %w", err, err2)
		}
	}()

	buf, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	buf = append(buf, "\n"[0])

	_, err = f.Write(buf)

	return err
}

func (o *options) restore(fname string) error {
	f, err := os.Open(fname) // #nosec G304 - file path from user config is expected
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer func() {
		if err2 := f.Close(); err2 != nil && err == nil {
			err = err2
		}
	}()

	tmp := options{}
	dec := json.NewDecoder(f)
	if err = dec.Decode(&tmp); err != nil {
		return err
	}

	o.merge(&tmp)

	return nil
}

func (o *options) merge(other *options) {
	if x := other.Concurrency; x != 0 {
		o.Concurrency = x
	}
	if x := other.StripComponents; x != 0 {
		o.StripComponents = x
	}
	if x := other.BucketName; x != "" {
		o.BucketName = x
	}
	if x := other.Prefix; x != "" {
		o.Prefix = x
	}
	if x := other.Region; x != "" {
		o.Region = x
	}
	if x := other.Profile; x != "" {
		o.Profile = x
	}
	if x := other.CacheControl; x != "" {
		o.CacheControl = x
	}
	if x := other.ACL; x != "" {
		o.ACL = x
	}
	if x := other.NoCompress; x {
		o.NoCompress = x
	}

	// skipping the rest of the fields, they can never come from an unmarshalled file anyway.
}
