package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const probeTimeout = 2 * time.Second

// Pinger checks that a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type probe struct {
	name   string
	pinger Pinger
}

// HealthController reports the state of each registered probe. Any failing
// probe makes the whole service unhealthy.
type HealthController struct {
	version string
	probes  []probe
}

func NewHealthController(version string) *HealthController {
	return &HealthController{version: version}
}

// Check registers a named probe. A nil pinger is reported as not configured.
func (h *HealthController) Check(name string, p Pinger) *HealthController {
	h.probes = append(h.probes, probe{name: name, pinger: p})
	return h
}

// Status runs every probe
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string, len(h.probes)),
	}
	for _, p := range h.probes {
		if p.pinger == nil {
			resp.Checks[p.name] = "not configured"
			continue
		}
		if err := p.pinger.Ping(ctx); err != nil {
			resp.Checks[p.name] = "error: " + err.Error()
			resp.Status = "unhealthy"
			continue
		}
		resp.Checks[p.name] = "ok"
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

// GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
