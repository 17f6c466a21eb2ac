package transfer

import (
	"time"

	"github.com/fileflow/fileflow/internal/bytesize"
)

// Config tunes the transfer service. Zero values are replaced by the
// defaults below, which match the protocol timing contract: the
// download wait window (FetchRetries x FetchRetryInterval ~ 15 s) must
// stay short of the 20 s request timeout at the HTTP layer.
type Config struct {
	// MaxBlockSize caps one uploaded block. Default: 1Mi.
	MaxBlockSize bytesize.ByteSize `mapstructure:"max_block_size" yaml:"max_block_size"`

	// MaxBlocksPerFile caps resident blocks per ID. Default: 1024.
	// The admission check is a soft ceiling: concurrent uploaders can
	// transiently exceed it by the number of racing writers.
	MaxBlocksPerFile int `mapstructure:"max_blocks_per_file" yaml:"max_blocks_per_file"`

	// MetaTTL is the lifetime of transfer metadata. Default: 24h.
	MetaTTL time.Duration `mapstructure:"meta_ttl" yaml:"meta_ttl"`

	// BlockTTL is the lifetime of an unconsumed block. Default: 60s.
	BlockTTL time.Duration `mapstructure:"block_ttl" yaml:"block_ttl"`

	// IssueRetries bounds ID regeneration on insert collision.
	IssueRetries int `mapstructure:"issue_retries" yaml:"issue_retries"`

	// ClaimRetries and ClaimRetryInterval bound the claim update loop.
	ClaimRetries       int           `mapstructure:"claim_retries" yaml:"claim_retries"`
	ClaimRetryInterval time.Duration `mapstructure:"claim_retry_interval" yaml:"claim_retry_interval"`

	// ClaimSettleDelay is slept after a claim so a racing claim can
	// settle before verification.
	ClaimSettleDelay time.Duration `mapstructure:"claim_settle_delay" yaml:"claim_settle_delay"`

	// FetchRetries and FetchRetryInterval bound the wait for a block
	// that has not been uploaded yet.
	FetchRetries       int           `mapstructure:"fetch_retries" yaml:"fetch_retries"`
	FetchRetryInterval time.Duration `mapstructure:"fetch_retry_interval" yaml:"fetch_retry_interval"`
}

// ApplyDefaults fills zero values with the protocol defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxBlockSize == 0 {
		c.MaxBlockSize = bytesize.MiB
	}
	if c.MaxBlocksPerFile <= 0 {
		c.MaxBlocksPerFile = 1024
	}
	if c.MetaTTL == 0 {
		c.MetaTTL = 24 * time.Hour
	}
	if c.BlockTTL == 0 {
		c.BlockTTL = 60 * time.Second
	}
	if c.IssueRetries <= 0 {
		c.IssueRetries = 16
	}
	if c.ClaimRetries <= 0 {
		c.ClaimRetries = 5
	}
	if c.ClaimRetryInterval == 0 {
		c.ClaimRetryInterval = 100 * time.Millisecond
	}
	if c.ClaimSettleDelay == 0 {
		c.ClaimSettleDelay = 250 * time.Millisecond
	}
	if c.FetchRetries <= 0 {
		c.FetchRetries = 60
	}
	if c.FetchRetryInterval == 0 {
		c.FetchRetryInterval = 250 * time.Millisecond
	}
}

// MaxTotalSize is the largest declarable file size.
func (c *Config) MaxTotalSize() uint64 {
	return c.MaxBlockSize.Uint64() * uint64(c.MaxBlocksPerFile)
}
