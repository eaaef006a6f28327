// Package logapi holds the JSON documents exchanged with the log service
// for project and logstore management.
//
// Encoding and decoding use github.com/goccy/go-json.
package logapi
