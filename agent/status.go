package agent

// Status values reported by Agent.Status.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// Status describes the agent and whether its provider has credentials.
type Status struct {
	Status       string   `json:"status"`
	Connected    bool     `json:"connected"`
	Agent        string   `json:"agent"`
	Model        string   `json:"model"`
	Capabilities []string `json:"capabilities"`
}

// Status reports the agent identity. It does not contact the provider.
func (a *Agent) Status() Status {
	connected := a.provider.Configured()
	status := StatusDisconnected
	if connected {
		status = StatusConnected
	}
	return Status{
		Status:       status,
		Connected:    connected,
		Agent:        a.persona.Name,
		Model:        a.provider.Model(),
		Capabilities: append([]string{}, a.persona.Capabilities...),
	}
}
