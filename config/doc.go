// Package config provides configuration loading and validation for grabbieldb.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (GRABBIELDB_ prefix)
//  4. CLI flags that were explicitly set
//
// Without explicit files, grabbieldb.yaml is looked up in the working
// directory and in /etc/grabbieldb.
//
// # Usage
//
//	cfg, err := config.Load([]string{"grabbieldb.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with the GRABBIELDB_ prefix:
//   - media.addr → GRABBIELDB_MEDIA_ADDR
//   - database.dsn → GRABBIELDB_DATABASE_DSN
//   - server.max_body_bytes → GRABBIELDB_SERVER_MAX_BODY_BYTES
//
// # Configuration Structure
//
//   - Admin, Media: listener addresses, admin page size, dashboard size
//   - Server: read/write timeouts, header and body limits, read buffer size,
//     truncated-body policy
//   - Database: type (sqlite/postgres), DSN, table names, auto_migrate
//   - Spool: upload spool directory and the age at which leftovers are pruned
//   - ObjectStore: gsutil argv prefix, timeout, buckets and public URL base
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level; Env selects the production JSON handler
package config
