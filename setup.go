package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// isTestMode checks if the program is running under go test
func isTestMode() bool {
	// Check if running under go test by looking for test flags
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

var opts = &options{
	Concurrency:  50,
	CacheControl: "public, max-age=31536000",
	ACL:          "public-read",
	Region:       os.Getenv("AWS_DEFAULT_REGION"),
	Profile:      os.Getenv("AWS_DEFAULT_PROFILE"),
	cfgFile:      ".untar-to-s3.json",
}

var appEnv string

// AWS configuration and the shared uploader
var awsCfg aws.Config

var s3Uploader S3Uploader

var say func(...string)

// processCmdLineFlags wraps the command line flags handling.
func processCmdLineFlags(opts *options) {
	flag.StringVar(&opts.BucketName, "bucket", opts.BucketName, "Bucket to unpack the archive into")
	flag.StringVar(&opts.Prefix, "prefix", opts.Prefix, "Key prefix prepended to all uploaded files")
	flag.IntVar(&opts.StripComponents, "strip-components", opts.StripComponents, "Strip this many leading path components from entry names")
	flag.IntVar(&opts.Concurrency, "concurrency", opts.Concurrency, "No. of concurrent uploads")
	flag.StringVar(&opts.Region, "region", opts.Region, "AWS region")
	flag.StringVar(&opts.Profile, "profile", opts.Profile, "AWS shared profile")
	flag.StringVar(&opts.CacheControl, "cache-control", opts.CacheControl, "Cache-Control header set on every object")
	flag.StringVar(&opts.ACL, "acl", opts.ACL, "Canned ACL applied to every object")
	flag.BoolVar(&opts.NoCompress, "no-compress", opts.NoCompress, "Disable gzip compression of known file types")
	flag.StringVar(&opts.cfgFile, "cfgfile", opts.cfgFile, "Config file location")
	flag.BoolVar(&opts.dryRun, "dry", opts.dryRun, "Dry run (do not upload anything)")
	flag.BoolVar(&opts.verbose, "verbose", opts.verbose, "Print the name of the files as they are uploaded")
	flag.BoolVar(&opts.quiet, "quiet", opts.quiet, "Print only warnings and/or errors")
	flag.BoolVar(&opts.saveCfg, "save", opts.saveCfg, "Saves the current commandline options to a config file")
	flag.BoolVar(&opts.version, "version", opts.version, "Print version information and exit")
	flag.Parse()
	opts.archive = flag.Arg(0)
}

// validateCmdLineFlags validates some of the flags, mostly paths. Defers actual validation to validateCmdLineFlag()
func validateCmdLineFlags(opts *options) error {
	flags := map[string]string{
		"Bucket Name": opts.BucketName,
		"ACL":         opts.ACL,
		"Archive":     opts.archive,
	}
	for label, val := range flags {
		if err := validateCmdLineFlag(label, val); err != nil {
			return err
		}
	}

	if opts.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", opts.Concurrency)
	}
	if opts.StripComponents < 0 {
		return fmt.Errorf("strip-components must not be negative, got %d", opts.StripComponents)
	}

	return nil
}

// validateCmdLineFlag handles the actual validation of flags.
func validateCmdLineFlag(label, val string) error {
	switch label {
	case "Bucket Name":
		if val == "" {
			return fmt.Errorf("%s is not set", label)
		}
	case "ACL":
		for _, acl := range types.ObjectCannedACL("").Values() {
			if string(acl) == val {
				return nil
			}
		}
		return fmt.Errorf("invalid canned ACL %q", val)
	case "Archive":
		if val == "" {
			return fmt.Errorf("%s is not set", label)
		}
		if val == "-" { // stdin
			return nil
		}
		_, err := os.Stat(val)
		return err
	}
	return nil
}

func initAWSClient() {
	ctx := context.Background()
	var err error

	// Build config options
	configOpts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(3),
	}

	// Set region if specified
	if opts.Region != "" {
		configOpts = append(configOpts, config.WithRegion(opts.Region))
	}

	// Set shared profile if specified
	if opts.Profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	// Load AWS config with credential chain (automatically includes: shared credentials, EC2 role, env vars)
	awsCfg, err = config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		abort(fmt.Errorf("failed to load AWS config: %w", err))
	}

	// Verify credentials are available
	_, err = awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		abort(fmt.Errorf("unable to initialize AWS credentials - please check environment: %w", err))
	}

	s3Uploader = NewS3Uploader(awsCfg)
}

// initAWSClientWithEndpoint points the uploader at a custom endpoint
// (e.g. LocalStack) with path-style addressing. Used by acceptance tests.
func initAWSClientWithEndpoint(endpoint, region string) error {
	ctx := context.Background()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	s3Uploader = NewS3UploaderWithClient(client)

	return nil
}

func abort(msg error) {
	warn("%v", msg)
	os.Exit(SetupFailed)
}

func init() {
	// Skip full initialization in test mode - tests will set up their own mocks
	if isTestMode() {
		say = loggerGen()
		return
	}

	oldCfgFile := opts.cfgFile
	if err := opts.restore(opts.cfgFile); err != nil {
		abort(err)
	}
	processCmdLineFlags(opts)

	// Handle version flag early, before AWS initialization
	if opts.version {
		fmt.Println(GetVersion())
		os.Exit(Success)
	}

	if opts.cfgFile != oldCfgFile { // we were given a different config file, use that instead.
		if err := opts.restore(opts.cfgFile); err != nil {
			abort(err)
		}
	}
	if opts.saveCfg {
		if err := opts.dump(opts.cfgFile); err != nil {
			abort(err)
		}
	}
	appEnv = "production"
	say = loggerGen()
	if !opts.dryRun {
		initAWSClient()
	}
}
