package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
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
//	-a server address in format [host]:[port]
//	-d journal database DSN
//	-sqlite-path journal sqlite file path
//	-journal-driver journal driver (postgres, sqlite, off)
//	-secret webhook HMAC secret
//	-signature-header signature header name
//	-signature-algo signature algorithm (sha256, sha1)
//	-handlers comma-separated module specifier list
//	-routes-config route enablement document path
//	-idempotency-ttl idempotency cache TTL (e.g., "10m", "600s")
//	-spam-dir spam archive directory
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var sqlitePath string
	var journalDriver string
	var secret string
	var signatureHeader string
	var signatureAlgo string
	var handlers string
	var routesConfig string
	var idempotencyTTL time.Duration
	var spamDir string
	var jsonConfigPath string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Journal database DSN")
	fs.StringVar(&sqlitePath, "sqlite-path", "", "Journal sqlite file path")
	fs.StringVar(&journalDriver, "journal-driver", "", "Journal driver (postgres, sqlite, off)")
	fs.StringVar(&secret, "secret", "", "Webhook HMAC secret")
	fs.StringVar(&signatureHeader, "signature-header", "", "Signature header name")
	fs.StringVar(&signatureAlgo, "signature-algo", "", "Signature algorithm (sha256, sha1)")
	fs.StringVar(&handlers, "handlers", "", "Comma-separated module specifiers")
	fs.StringVar(&routesConfig, "routes-config", "", "Route enablement document path")
	fs.DurationVar(&idempotencyTTL, "idempotency-ttl", 0, "Idempotency cache TTL (e.g., 10m)")
	fs.StringVar(&spamDir, "spam-dir", "", "Spam archive directory")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	_ = fs.Parse(args)

	var handlerList []string
	if handlers != "" {
		handlerList = strings.Split(handlers, ",")
	}

	return &StructuredConfig{
		Server: Server{
			Port: serverAddress.Port,
		},
		Webhook: Webhook{
			Handlers:        handlerList,
			Secret:          secret,
			SignatureHeader: signatureHeader,
			SignatureAlgo:   signatureAlgo,
			RoutesConfig:    routesConfig,
		},
		Idempotency: Idempotency{
			TTLSeconds: int(idempotencyTTL.Seconds()),
		},
		Journal: Journal{
			Driver:     journalDriver,
			DSN:        databaseDSN,
			SQLitePath: sqlitePath,
		},
		Spam: Spam{
			DataDir: spamDir,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
