package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const maxTenantIDLength = 100

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Placeholders used when a run is started without a full context.
const (
	UnknownTrace     = "unknown_trace"
	UnknownExecution = "unknown_exec"
	UnknownTenant    = "unknown_tenant"
)

// Validate checks the caller-supplied fields of the context.
func (c *BusinessContext) Validate() error {
	if c.TenantID == "" || len(c.TenantID) > maxTenantIDLength {
		return fmt.Errorf("%w: tenant_id must have between 1 and %d characters", ErrInvalidContext, maxTenantIDLength)
	}
	if !tenantIDPattern.MatchString(c.TenantID) {
		return fmt.Errorf("%w: tenant_id must contain only alphanumeric, dash, or underscore", ErrInvalidContext)
	}
	switch c.Pipeline {
	case "", PipelineEnterprise, PipelineCustom:
	default:
		return fmt.Errorf("%w: pipeline must be enterprise or custom", ErrInvalidContext)
	}
	switch c.Priority {
	case "", PriorityLow, PriorityNormal, PriorityHigh:
	default:
		return fmt.Errorf("%w: priority must be low, normal or high", ErrInvalidContext)
	}
	return nil
}

// Complete fills defaults and generates missing trace and execution ids.
func (c *BusinessContext) Complete() {
	if c.Pipeline == "" {
		c.Pipeline = PipelineEnterprise
	}
	if c.Priority == "" {
		c.Priority = PriorityNormal
	}
	if c.TraceID == "" {
		c.TraceID = uuid.New().String()
	}
	if c.ExecutionID == "" {
		hex := strings.ReplaceAll(uuid.New().String(), "-", "")
		c.ExecutionID = fmt.Sprintf("%s_%s", c.TenantID, hex[:12])
	}
}

// WithPlaceholders returns a copy whose empty identifiers are replaced by
// the unknown_* placeholders. Used by the pipeline, which tolerates gaps.
func (c BusinessContext) WithPlaceholders() BusinessContext {
	if c.TraceID == "" {
		c.TraceID = UnknownTrace
	}
	if c.ExecutionID == "" {
		c.ExecutionID = UnknownExecution
	}
	if c.TenantID == "" {
		c.TenantID = UnknownTenant
	}
	return c
}
