// Package security builds the client TLS settings used to reach the log
// service over HTTPS: custom CA bundles, client certificates for mutual TLS,
// server name overrides and the minimum protocol version.
//
//	cfg := security.TLSConfig{
//	    CAFile:     "/etc/logkit/ca.pem",
//	    MinVersion: "1.3",
//	}
//	tlsConfig, err := cfg.Build()
//
// Test certificates come from the tlstest subpackage.
package security
