package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from the process arguments.
//
// Flags:
//
//	-a server HTTP address in format [host]:[port]
//	-grpc-address gRPC health endpoint address in format [host]:[port]
//	-r remote authority address the client talks to, in format [host]:[port]
//	-d server database DSN (postgres URL or sqlite file)
//	-local-db client local sqlite file
//	-c/-config json file path with configs
//	-hash-key body integrity hash key
//	-request-timeout request timeout (e.g., "5s")
//	-sync-interval drain ticker period (e.g., "30s")
//	-probe-interval connectivity probe period (e.g., "10s")
//	-max-merge-retries auto-merge retries before escalation
//	-latency injected server latency (e.g., "500ms")
//	-failure-rate injected server failure probability
//	-log-file client log file path
func ParseFlags() *StructuredConfig {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		return &StructuredConfig{}
	}
	return cfg
}

func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress, remoteAddress NetAddress
	var databaseDSN, localDSN string
	var jsonConfigPath string
	var hashKey string
	var logFile string
	var requestTimeout, syncInterval, probeInterval, latency time.Duration
	var maxMergeRetries int
	var failureRate float64

	fs := flag.NewFlagSet("board", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.Var(&remoteAddress, "r", "Remote authority address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Server database DSN")
	fs.StringVar(&localDSN, "local-db", "", "Client local database file")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&hashKey, "hash-key", "", "Body integrity hash key")
	fs.StringVar(&logFile, "log-file", "", "Client log file")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 5s)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Drain interval (e.g., 30s)")
	fs.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe interval (e.g., 10s)")
	fs.DurationVar(&latency, "latency", 0, "Injected server latency (e.g., 500ms)")
	fs.IntVar(&maxMergeRetries, "max-merge-retries", 0, "Auto-merge retries before escalation")
	fs.Float64Var(&failureRate, "failure-rate", 0, "Injected server failure probability")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			HashKey: hashKey,
			LogFile: logFile,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Local: Local{DSN: localDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
			Latency:        latency,
			FailureRate:    failureRate,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SyncInterval:    syncInterval,
			ProbeInterval:   probeInterval,
			MaxMergeRetries: maxMergeRetries,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns host:port, bracketing IPv6 hosts. An unset address is "".
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. The host may be empty (all interfaces), "localhost"
// or an IP literal; the port must be within 1..65535.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNetAddress, err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNetAddress, err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidNetAddress, port)
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: incorrect IP-address %q", ErrInvalidNetAddress, host)
	}

	a.Host = host
	a.Port = port
	return nil
}
