// Package gateway resolves job destinations through the remote
// destination authority, falling back to the in-process pipeline when
// the authority cannot be reached.
package gateway

import (
	"github.com/usegalaxy-eu/jcaas/destination"
)

// Request is the payload posted to the destination authority.
type Request struct {
	ToolID    string   `json:"tool_id"`
	UserRoles []string `json:"user_roles"`
	Email     string   `json:"email"`
}

// Response is the authority's answer, shaped exactly like the local
// spec builder output plus the record it was built from.
type Response struct {
	Env    []destination.EnvVar `json:"env"`
	Params map[string]string    `json:"params"`
	Runner string               `json:"runner"`
	Spec   destination.ToolSpec `json:"spec"`
}

// Resubmission policy: jobs failing for any reason get one retry through
// the resubmit gateway, which raises memory and disables further
// retries.
const (
	ResubmitCondition   = "any_failure"
	ResubmitDestination = "resubmit_gateway"

	resubmitSuffix   = "_resubmit"
	resubmitMemScale = 1.5
)
