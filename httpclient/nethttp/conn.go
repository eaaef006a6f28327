package nethttp

import (
	"net/http"
	"net/http/httptrace"
	"sync/atomic"

	"github.com/kbukum/logkit/httpclient"
)

// connManager reports pool settings and counts connection use.
type connManager struct {
	base     *http.Transport
	cfg      Config
	opened   atomic.Int64
	reused   atomic.Int64
	inFlight atomic.Int64
}

var _ httpclient.ConnectionManager = (*connManager)(nil)

func (m *connManager) Stats() httpclient.ConnectionStats {
	return httpclient.ConnectionStats{
		MaxIdleConns:        m.cfg.MaxIdleConns,
		MaxIdleConnsPerHost: m.cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     m.cfg.MaxConnsPerHost,
		IdleConnTimeout:     m.cfg.IdleConnTimeout,
		Opened:              m.opened.Load(),
		Reused:              m.reused.Load(),
		InFlight:            m.inFlight.Load(),
	}
}

func (m *connManager) CloseIdleConnections() {
	m.base.CloseIdleConnections()
}

func (m *connManager) trace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				m.reused.Add(1)
			} else {
				m.opened.Add(1)
			}
		},
	}
}
