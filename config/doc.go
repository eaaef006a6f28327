// Package config loads and validates log client configuration.
//
// Values come from defaults, a YAML file (logctl.yml, config.yml,
// ~/.logctl/config.yml), a .env file and LOGKIT_* environment variables, in
// increasing priority. Nested keys map to underscores:
// LOGKIT_TRANSPORT_TIMEOUT sets transport.timeout.
//
// # Usage
//
//	cfg, err := config.LoadClientConfig("logctl")
//	if err != nil {
//	    return err
//	}
//	transport, err := nethttp.New(cfg.Transport)
//	d, err := httpclient.New(transport, cfg.Dispatcher())
package config
