package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-marmot/marmot/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by Load
const EnvPrefix = "MARMOT"

// Defaults applied by EnsureDefaults
const (
	DefaultHost         = "localhost"
	DefaultPort         = 12985
	DefaultChunkSize    = 63 * 1024
	DefaultSyncInterval = 8
	DefaultPipeCapacity = 16
	DefaultCompression  = "none"
	DefaultDialTimeout  = 10 * time.Second
	DefaultRPCTimeout   = 30 * time.Second
)

// ClientOptions configures a connection to a Marmot server
type ClientOptions struct {
	Host         string        // Host of the Marmot server
	Port         int           // Port of the Marmot server
	DialTimeout  time.Duration // DialTimeout bounds the initial connection
	RPCTimeout   time.Duration // RPCTimeout bounds every unary RPC
	ChunkSize    int           // ChunkSize is the maximum payload of a streamed chunk, in bytes
	SyncInterval int           // SyncInterval is the number of chunks sent between flow-control syncs
	PipeCapacity int           // PipeCapacity is the number of received chunks buffered before the sender is stalled
	Compression  string        // Compression names the codec applied to uploaded streams
	LogLevel     string        // LogLevel is one of TRACE, DEBUG, INFO, WARN, ERROR, FATAL
}

// EnsureDefaults fills in every unset option with its default value
func (o *ClientOptions) EnsureDefaults() {
	if len(o.Host) == 0 {
		o.Host = DefaultHost
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.DialTimeout == 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.RPCTimeout == 0 {
		o.RPCTimeout = DefaultRPCTimeout
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.SyncInterval <= 0 {
		o.SyncInterval = DefaultSyncInterval
	}
	if o.PipeCapacity <= 0 {
		o.PipeCapacity = DefaultPipeCapacity
	}
	if len(o.Compression) == 0 {
		o.Compression = DefaultCompression
	}
	if len(o.LogLevel) == 0 {
		o.LogLevel = logging.LogLevelToString(logging.InfoLevel)
	}
}

// Default returns ClientOptions with every default applied
func Default() *ClientOptions {
	opts := &ClientOptions{}
	opts.EnsureDefaults()
	return opts
}

// Validate reports the first option which is out of range
func (o *ClientOptions) Validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("ClientOptions.Port must be between 1 and 65535, got %d", o.Port)
	}
	if o.ChunkSize <= 0 {
		return fmt.Errorf("ClientOptions.ChunkSize must be greater than 0")
	}
	if o.SyncInterval <= 0 {
		return fmt.Errorf("ClientOptions.SyncInterval must be greater than 0")
	}
	if _, err := logging.ParseLogLevel(o.LogLevel); err != nil {
		return err
	}
	return nil
}

// Target returns the gRPC dial target of the configured server
func (o *ClientOptions) Target() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// RegisterFlags defines one flag per option on fs, writing into o. Flag
// defaults are the current values of o, so callers usually start from Default().
func (o *ClientOptions) RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a TOML or YAML configuration file")
	fs.StringVar(&o.Host, "host", o.Host, "host of the Marmot server")
	fs.IntVar(&o.Port, "port", o.Port, "port of the Marmot server")
	fs.DurationVar(&o.DialTimeout, "dial-timeout", o.DialTimeout, "timeout for connecting to the server")
	fs.DurationVar(&o.RPCTimeout, "rpc-timeout", o.RPCTimeout, "timeout for each unary RPC")
	fs.IntVar(&o.ChunkSize, "chunk-size", o.ChunkSize, "maximum payload of a streamed chunk, in bytes")
	fs.IntVar(&o.SyncInterval, "sync-interval", o.SyncInterval, "chunks sent between flow-control syncs")
	fs.IntVar(&o.PipeCapacity, "pipe-capacity", o.PipeCapacity, "received chunks buffered before the sender is stalled")
	fs.StringVar(&o.Compression, "compression", o.Compression, "codec applied to uploaded streams (none, lz4, zstd, snappy, gzip)")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "logging level")
}

// Load applies configuration from the command line, the environment and a
// config file (if the "config" flag is set), in that priority order, to the
// flags registered on fs. Environment variables are the upper-cased flag
// names with dashes replaced by underscores, prefixed with MARMOT_.
func Load(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		v.SetConfigType(configType(c))
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}
	}

	var flagErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		flagErr = f.Value.Set(value)
	})
	return flagErr
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "toml"
	}
}

// LoadClientOptions is a shorthand which registers the ClientOptions flags
// on a fresh FlagSet, parses args and applies Load
func LoadClientOptions(args []string) (*ClientOptions, error) {
	opts := Default()
	fs := pflag.NewFlagSet("marmot", pflag.ContinueOnError)
	opts.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := Load(viper.New(), fs); err != nil {
		return nil, err
	}
	opts.EnsureDefaults()
	return opts, opts.Validate()
}
