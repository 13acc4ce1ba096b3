package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"killrvideoit/adapters/cassandra"
	"killrvideoit/domain"
	"killrvideoit/service"

	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envDockerIP            = "KILLRVIDEO_DOCKER_IP"
	envConfigPath          = "CONFIG_PATH"
	envApplicationName     = "KILLRVIDEO_APPLICATION_NAME"
	envApplicationInstance = "KILLRVIDEO_APPLICATION_INSTANCE_ID"
	envEtcdPort            = "KILLRVIDEO_ETCD_PORT"
	envRegistryKind        = "REGISTRY_KIND"
	envRedisDB             = "REDIS_DB"
	envWaitTimeSeconds     = "WAIT_TIME_SECONDS"
	envPresenceWaitSeconds = "PRESENCE_WAIT_SECONDS"
	envSettleDelay         = "BACKEND_SETTLE_DELAY"
	envProbeTimeout        = "PROBE_TIMEOUT"
	envBootstrapTimeout    = "BOOTSTRAP_TIMEOUT"
	envStorageSelection    = "STORAGE_SELECTION"
	envServices            = "KILLRVIDEO_SERVICES"
	envCassandraCluster    = "CASSANDRA_CLUSTER_NAME"
	envCassandraKeyspace   = "CASSANDRA_KEYSPACE"
	envHTTPPort            = "SERVICE_PORT_HTTP"
)

// Registry backends.
const (
	registryEtcd  = "etcd"
	registryRedis = "redis"
)

// Defaults of the properties file.
const (
	defaultApplicationName = "KillrVideo"
	defaultInstanceID      = "0"
	defaultEtcdPort        = 2379
)

// Config holds the bootstrap configuration loaded by LoadConfig from the properties file and env variables.
type Config struct {
	RegistryHost string
	RegistryPort int
	RegistryKind string
	// RedisDB is the logical database holding registrations when RegistryKind is redis.
	RedisDB          int
	App              domain.AppIdentity
	PollInterval     time.Duration
	PresenceInterval time.Duration
	SettleDelay      time.Duration
	ProbeTimeout     time.Duration
	// BootstrapTimeout of 0 means the bootstrap waits until interrupted.
	BootstrapTimeout time.Duration
	StorageSelection string
	Services         []string
	Cassandra        cassandra.Config
	// HTTPPort of 0 disables the status API; the process exits once the environment is ready.
	HTTPPort int
}

// yamlProperties mirrors the killrvideo.* properties file.
type yamlProperties struct {
	Killrvideo struct {
		Application struct {
			Name     string `yaml:"name"`
			Instance struct {
				ID string `yaml:"id"`
			} `yaml:"instance"`
		} `yaml:"application"`
		Etcd struct {
			Port int `yaml:"port"`
		} `yaml:"etcd"`
	} `yaml:"killrvideo"`
}

// loadYAMLProperties reads and parses the properties file at path.
func loadYAMLProperties(path string) (*yamlProperties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out yamlProperties
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadConfig loads configuration. Properties come from the optional YAML file at CONFIG_PATH, then env
// variables override them. KILLRVIDEO_DOCKER_IP is required.
//
// Called only from main at startup.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		RegistryPort: defaultEtcdPort,
		RegistryKind: registryEtcd,
		App:          domain.AppIdentity{Name: defaultApplicationName, InstanceID: defaultInstanceID},
	}

	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		if !filepath.IsAbs(configPath) {
			abs, err := filepath.Abs(configPath)
			if err != nil {
				return nil, err
			}
			configPath = abs
		}
		props, err := loadYAMLProperties(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		if v := strings.TrimSpace(props.Killrvideo.Application.Name); v != "" {
			cfg.App.Name = v
		}
		if v := strings.TrimSpace(props.Killrvideo.Application.Instance.ID); v != "" {
			cfg.App.InstanceID = v
		}
		if props.Killrvideo.Etcd.Port != 0 {
			cfg.RegistryPort = props.Killrvideo.Etcd.Port
		}
	}

	cfg.RegistryHost = strings.TrimSpace(os.Getenv(envDockerIP))
	if cfg.RegistryHost == "" {
		return nil, fmt.Errorf("%s is required", envDockerIP)
	}
	if v := strings.TrimSpace(os.Getenv(envApplicationName)); v != "" {
		cfg.App.Name = v
	}
	if v := strings.TrimSpace(os.Getenv(envApplicationInstance)); v != "" {
		cfg.App.InstanceID = v
	}

	var err error
	if cfg.RegistryPort, err = envInt(envEtcdPort, cfg.RegistryPort); err != nil {
		return nil, err
	}
	if err := service.ValidateHostAndPort(cfg.RegistryHost + ":" + strconv.Itoa(cfg.RegistryPort)); err != nil {
		return nil, fmt.Errorf("%s and %s must form a valid registry endpoint: %w", envDockerIP, envEtcdPort, err)
	}

	cfg.RegistryKind = strings.ToLower(envString(envRegistryKind, registryEtcd))
	if cfg.RegistryKind != registryEtcd && cfg.RegistryKind != registryRedis {
		return nil, fmt.Errorf("%s must be %s|%s, got %q", envRegistryKind, registryEtcd, registryRedis, cfg.RegistryKind)
	}

	if cfg.RedisDB, err = envInt(envRedisDB, 0); err != nil {
		return nil, err
	}
	if cfg.RedisDB < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %d", envRedisDB, cfg.RedisDB)
	}

	if cfg.PollInterval, err = envSeconds(envWaitTimeSeconds, service.DefaultWaitTime); err != nil {
		return nil, err
	}
	if cfg.PresenceInterval, err = envSeconds(envPresenceWaitSeconds, service.DefaultWaitTime); err != nil {
		return nil, err
	}
	if cfg.SettleDelay, err = envDuration(envSettleDelay, 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = envDuration(envProbeTimeout, 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout == 0 {
		return nil, fmt.Errorf("%s must be positive", envProbeTimeout)
	}
	if cfg.BootstrapTimeout, err = envDuration(envBootstrapTimeout, 15*time.Minute); err != nil {
		return nil, err
	}

	cfg.StorageSelection = strings.ToLower(envString(envStorageSelection, service.SelectionFirst))
	if _, err := service.SelectorByName(cfg.StorageSelection); err != nil {
		return nil, fmt.Errorf("%s: %w", envStorageSelection, err)
	}

	cfg.Services = splitServices(envString(envServices, domain.UserManagementService))
	if len(cfg.Services) == 0 {
		return nil, fmt.Errorf("%s must name at least one service", envServices)
	}

	cfg.Cassandra = cassandra.Config{
		ClusterName: envString(envCassandraCluster, "killrvideo"),
		Keyspace:    envString(envCassandraKeyspace, "killrvideo"),
		Timeout:     cfg.ProbeTimeout,
	}

	if cfg.HTTPPort, err = envInt(envHTTPPort, 0); err != nil {
		return nil, err
	}
	if cfg.HTTPPort < 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("%s must be 0-65535, got %d", envHTTPPort, cfg.HTTPPort)
	}

	return cfg, nil
}

func envString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// envSeconds reads a positive number of seconds.
func envSeconds(name string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(os.Getenv(name)) == "" {
		return def, nil
	}
	v, err := envInt(name, 0)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number of seconds, got %d", name, v)
	}
	return time.Duration(v) * time.Second, nil
}

// envDuration reads a non-negative time.ParseDuration value.
func envDuration(name string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	if raw == "0" {
		return 0, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative duration (e.g. 2s), got %q", name, raw)
	}
	return v, nil
}

func splitServices(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
