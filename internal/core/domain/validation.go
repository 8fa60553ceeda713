package domain

// AlertLevel grades a business-rule finding.
type AlertLevel string

const (
	AlertError   AlertLevel = "ERROR"   // Blocks the operation
	AlertWarning AlertLevel = "WARNING" // Surfaced to the caller, does not block
)

// Alert is one business-rule finding from pre-payment validation.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
}

// ValidationResult is the outcome of running all business-rule checks.
type ValidationResult struct {
	Alerts []Alert `json:"alerts"`
}

// HasBlocking reports whether any ERROR-level alert is present.
func (r ValidationResult) HasBlocking() bool {
	for _, a := range r.Alerts {
		if a.Level == AlertError {
			return true
		}
	}
	return false
}
