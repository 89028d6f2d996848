package orchestrator

import "strings"

// Config holds configuration for cycle scheduling and policy.
type Config struct {
	// IntervalSeconds is the scheduler tick between cycles per source.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"3600"`
	// CycleTimeoutSeconds bounds one whole fetch-and-reconcile cycle.
	CycleTimeoutSeconds int `mapstructure:"cycle_timeout_seconds" default:"120"`
	// FetchRetries is the number of fetch attempts per cycle.
	FetchRetries int `mapstructure:"fetch_retries" default:"3"`
	// RetryBackoffSeconds is the base backoff between fetch attempts.
	RetryBackoffSeconds int `mapstructure:"retry_backoff_seconds" default:"5"`
	// Sources is the comma-separated list of enabled data sources.
	Sources string `mapstructure:"sources" default:"K-ruoka,S-Ryhma"`
	// AllowEmptySources lists sources whose empty snapshots are trusted
	// and applied as mass disappearance instead of refused.
	AllowEmptySources string `mapstructure:"allow_empty_sources" default:""`
	// ArchivePayloads enables uploading raw payloads to object storage.
	ArchivePayloads bool `mapstructure:"archive_payloads" default:"false"`
	// ArchiveBucket is the bucket used for raw payload archiving.
	ArchiveBucket string `mapstructure:"archive_bucket" default:"price-tracker-raw"`
}

// SourceList returns the enabled sources as a slice.
func (c Config) SourceList() []string {
	return splitList(c.Sources)
}

// AllowEmptyList returns the trusted-empty sources as a slice.
func (c Config) AllowEmptyList() []string {
	return splitList(c.AllowEmptySources)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
