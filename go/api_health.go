package kioskserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

type HealthAPI struct {
	checks map[string]HealthCheck
}

func NewHealthAPI(checks map[string]HealthCheck) HealthAPI {
	return HealthAPI{checks: checks}
}

// Get /healthz
// Optional dependencies are reported but never fail the probe.
func (api *HealthAPI) Health(c *gin.Context) {
	resp := Health{Status: "ok"}
	if len(api.checks) > 0 {
		resp.Checks = make(map[string]string, len(api.checks))
		for name, check := range api.checks {
			if err := check(c.Request.Context()); err != nil {
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = "ok"
		}
	}
	c.JSON(http.StatusOK, resp)
}
