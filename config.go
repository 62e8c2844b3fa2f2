package elector

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported coordination backends for owned connections.
const (
	// BackendZooKeeper dials Apache ZooKeeper through the zktree package.
	BackendZooKeeper = "zookeeper"

	// BackendEtcd dials etcd v3 through the etcdtree package.
	BackendEtcd = "etcd"
)

// AnnounceConfig configures leadership announcements over NATS.
type AnnounceConfig struct {
	// Enabled turns announcements on for sessions built by the CLI.
	// Library users wire an announcer explicitly with WithAnnouncer.
	Enabled bool `yaml:"enabled"`

	// NATSURL is the NATS server URL used by the CLI announcer.
	NATSURL string `yaml:"natsUrl"`

	// Subject is the subject prefix; the election path is appended as a token.
	Subject string `yaml:"subject"`

	// Bucket is the JetStream KV bucket holding the current leader per election path.
	Bucket string `yaml:"bucket"`

	// BucketTTL is how long a leader record remains without refresh (0 = no expiration).
	BucketTTL time.Duration `yaml:"bucketTtl"`
}

// Config is the configuration for an election Session.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// Backend selects the coordination service for owned connections built by
	// ConnectionFromConfig ("zookeeper" or "etcd"). Ignored for shared connections.
	Backend string `yaml:"backend"`

	// Servers lists coordination service endpoints ("host:port").
	// Required by ConnectionFromConfig only.
	Servers []string `yaml:"servers"`

	// SessionTimeout is the coordination session timeout. Ephemeral candidate
	// nodes of a crashed process disappear after roughly this long.
	SessionTimeout time.Duration `yaml:"sessionTimeout"`

	// ElectionPath is the absolute tree path under which candidate nodes live.
	ElectionPath string `yaml:"electionPath"`

	// CandidatePrefix is the name prefix of candidate nodes. The service appends
	// the sequence number, e.g. "p_" produces "p_0000000007".
	CandidatePrefix string `yaml:"candidatePrefix"`

	// OperationTimeout bounds announcements and each tree operation issued by
	// the watch loop.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// ShutdownTimeout is the default Disconnect bound used by the CLI.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// EventBuffer is the channel capacity of each Subscribe channel.
	EventBuffer int `yaml:"eventBuffer"`

	// Announce configures leadership announcements.
	Announce AnnounceConfig `yaml:"announce"`
}

// DefaultConfig returns a configuration with production defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Backend:          BackendZooKeeper,
		SessionTimeout:   10 * time.Second,
		ElectionPath:     "/election",
		CandidatePrefix:  "p_",
		OperationTimeout: 10 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		EventBuffer:      16,
		Announce: AnnounceConfig{
			Subject:   "elector.leader",
			Bucket:    "elector-leaders",
			BucketTTL: 0, // leader records are removed explicitly
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Backend == "" {
		cfg.Backend = defaults.Backend
	}
	if cfg.SessionTimeout == 0 {
		cfg.SessionTimeout = defaults.SessionTimeout
	}
	if cfg.ElectionPath == "" {
		cfg.ElectionPath = defaults.ElectionPath
	}
	if cfg.CandidatePrefix == "" {
		cfg.CandidatePrefix = defaults.CandidatePrefix
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.EventBuffer == 0 {
		cfg.EventBuffer = defaults.EventBuffer
	}
	if cfg.Announce.Subject == "" {
		cfg.Announce.Subject = defaults.Announce.Subject
	}
	if cfg.Announce.Bucket == "" {
		cfg.Announce.Bucket = defaults.Announce.Bucket
	}
	// Note: BucketTTL of 0 is valid (no expiration), so we don't apply default
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - ElectionPath is absolute, has no trailing slash and no empty or dot segments
//   - CandidatePrefix is not empty and contains no "/"
//   - Backend, when set, is "zookeeper" or "etcd"
//   - SessionTimeout, OperationTimeout and ShutdownTimeout are > 0
//   - EventBuffer >= 0
//   - Announce.Subject and Announce.Bucket are set when announcements are enabled
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if err := validateElectionPath(cfg.ElectionPath); err != nil {
		return err
	}

	if cfg.CandidatePrefix == "" || strings.Contains(cfg.CandidatePrefix, "/") {
		return fmt.Errorf("%w: CandidatePrefix %q must be non-empty and must not contain '/'",
			ErrInvalidConfig, cfg.CandidatePrefix)
	}

	switch cfg.Backend {
	case "", BackendZooKeeper, BackendEtcd:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownBackend, cfg.Backend)
	}

	if cfg.SessionTimeout <= 0 {
		return fmt.Errorf("%w: SessionTimeout must be > 0, got %v", ErrInvalidConfig, cfg.SessionTimeout)
	}
	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("%w: OperationTimeout must be > 0, got %v", ErrInvalidConfig, cfg.OperationTimeout)
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: ShutdownTimeout must be > 0, got %v", ErrInvalidConfig, cfg.ShutdownTimeout)
	}
	if cfg.EventBuffer < 0 {
		return fmt.Errorf("%w: EventBuffer must be >= 0, got %d", ErrInvalidConfig, cfg.EventBuffer)
	}

	if cfg.Announce.Enabled {
		if cfg.Announce.Subject == "" || cfg.Announce.Bucket == "" {
			return fmt.Errorf("%w: announce subject and bucket are required when announcements are enabled", ErrInvalidConfig)
		}
		if cfg.Announce.BucketTTL < 0 {
			return fmt.Errorf("%w: Announce.BucketTTL must be >= 0, got %v", ErrInvalidConfig, cfg.Announce.BucketTTL)
		}
	}

	return nil
}

func validateElectionPath(p string) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: ElectionPath %q must be absolute", ErrInvalidConfig, p)
	}
	if p == "/" {
		return fmt.Errorf("%w: ElectionPath must not be the root", ErrInvalidConfig)
	}
	if strings.HasSuffix(p, "/") {
		return fmt.Errorf("%w: ElectionPath %q must not end with '/'", ErrInvalidConfig, p)
	}

	for _, seg := range strings.Split(p[1:], "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: ElectionPath %q has an empty or relative segment", ErrInvalidConfig, p)
		}
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewSession() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.SessionTimeout < 2*time.Second {
		logger.Warn(
			"SessionTimeout is very short, transient network stalls may expire the session",
			"sessionTimeout", cfg.SessionTimeout,
			"recommended", "5s or higher",
		)
	}

	if cfg.SessionTimeout > time.Minute {
		logger.Warn(
			"SessionTimeout is long, failover after a crash will be slow",
			"sessionTimeout", cfg.SessionTimeout,
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Returns:
//   - Config: Configuration with short timeouts for tests
//
// Example:
//
//	cfg := elector.TestConfig()
//	cfg.ElectionPath = "/test/" + t.Name()
//	session, err := elector.NewSession(&cfg, elector.Shared(client))
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.SessionTimeout = 2 * time.Second
	cfg.OperationTimeout = 2 * time.Second
	cfg.ShutdownTimeout = 2 * time.Second
	cfg.EventBuffer = 64

	return cfg
}

// ParseConfig decodes a YAML document into a Config.
//
// Unknown fields are rejected, missing fields take their defaults and the
// result is validated.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - *Config: Parsed configuration with defaults applied
//   - error: Decode or validation error
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
//
// Parameters:
//   - path: Path of the YAML file
//
// Returns:
//   - *Config: Parsed configuration with defaults applied
//   - error: Read, decode or validation error
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseConfig(data)
}
