package config

import "time"

// AuditConfig controls the durable audit event writer.
type AuditConfig struct {
	// QueueSize is the capacity of the in-memory event queue.
	QueueSize int `yaml:"queue_size"`
	// RetryDelay is the fixed delay before a failed persistence attempt is retried.
	RetryDelay time.Duration `yaml:"retry_delay"`
	// FallbackBufferSize is the capacity of the local fallback buffer that
	// captures intents which could not be enriched. Oldest entries are evicted first.
	FallbackBufferSize int `yaml:"fallback_buffer_size"`
	// StoreTimeout bounds every backing-store call.
	StoreTimeout time.Duration `yaml:"store_timeout"`
}

// SecurityConfig controls the security monitor and its detectors.
// The threshold defaults mirror the original heuristics.
type SecurityConfig struct {
	// ScanInterval is the time between two detector scan cycles.
	ScanInterval time.Duration `yaml:"scan_interval"`
	// Lookback is the sliding time window the detectors inspect.
	Lookback time.Duration `yaml:"lookback"`
	// StoreTimeout bounds every detector query against the backing store.
	StoreTimeout time.Duration `yaml:"store_timeout"`

	// FailedLoginThreshold: more failed logins than this from one source address raise an alert.
	FailedLoginThreshold int `yaml:"failed_login_threshold"`
	// UnauthorizedAccessThreshold: more denied reads than this by one actor raise an alert.
	UnauthorizedAccessThreshold int `yaml:"unauthorized_access_threshold"`
	// BulkOperationThreshold: more records than this touched by bulk updates of one actor raise an alert.
	BulkOperationThreshold int `yaml:"bulk_operation_threshold"`
	// ScanningResourceThreshold: more distinct resource types than this from one
	// source address with a single client label raise an alert.
	ScanningResourceThreshold int `yaml:"scanning_resource_threshold"`
	// ExfiltrationRecordThreshold: a single export of more records than this raises an alert.
	ExfiltrationRecordThreshold int `yaml:"exfiltration_record_threshold"`

	// EvidenceSampleSize truncates distinct-value lists in alert details.
	EvidenceSampleSize int `yaml:"evidence_sample_size"`
}

func defaultAuditConfig() AuditConfig {
	return AuditConfig{
		QueueSize:          100,
		RetryDelay:         5 * time.Second,
		FallbackBufferSize: 100,
		StoreTimeout:       10 * time.Second,
	}
}

func defaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		ScanInterval: 5 * time.Minute,
		Lookback:     1 * time.Hour,
		StoreTimeout: 10 * time.Second,

		FailedLoginThreshold:        10,
		UnauthorizedAccessThreshold: 5,
		BulkOperationThreshold:      1000,
		ScanningResourceThreshold:   20,
		ExfiltrationRecordThreshold: 5000,

		EvidenceSampleSize: 3,
	}
}
