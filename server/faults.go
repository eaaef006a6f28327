package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	logerrors "github.com/kbukum/logkit/errors"
	"github.com/kbukum/logkit/server/middleware"
)

// Fault is a canned failure answered instead of the next request.
// A zero Status only adds Delay.
type Fault struct {
	Status  int
	Code    string
	Message string
	Delay   time.Duration
}

type faultQueue struct {
	mu     sync.Mutex
	faults []Fault
}

func (q *faultQueue) push(f Fault, times int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := 0; i < times; i++ {
		q.faults = append(q.faults, f)
	}
}

func (q *faultQueue) pop() (Fault, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.faults) == 0 {
		return Fault{}, false
	}
	f := q.faults[0]
	q.faults = q.faults[1:]
	return f, true
}

func (q *faultQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.faults)
}

// InjectFault answers the next times requests with f.
func (s *Server) InjectFault(f Fault, times int) {
	s.faults.push(f, times)
}

// PendingFaults returns the number of faults not yet served.
func (s *Server) PendingFaults() int {
	return s.faults.pending()
}

func (s *Server) faultInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := s.faults.pop()
		if !ok {
			c.Next()
			return
		}

		if f.Delay > 0 {
			timer := time.NewTimer(f.Delay)
			select {
			case <-timer.C:
			case <-c.Request.Context().Done():
				timer.Stop()
				c.Abort()
				return
			}
		}
		if f.Status == 0 {
			c.Next()
			return
		}

		s.log.Debug("Injected fault", map[string]interface{}{
			"status":     f.Status,
			"error_code": f.Code,
			"request_id": middleware.GetRequestID(c),
		})
		writeError(c, f.Status, f.Code, f.Message)
	}
}

// ServerBusy is the fault most retry tests need.
func ServerBusy() Fault {
	return Fault{Status: http.StatusServiceUnavailable, Code: logerrors.ServiceCodeServerBusy, Message: "server is busy, please try again later"}
}
