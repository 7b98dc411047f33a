package config

type Integrations struct {
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	NatsURL          string `env:"NATS_URL"`
	NatsAlertSubject string `env:"NATS_ALERT_SUBJECT, default=beeguard.alerts.hornets"`
}

var _ IntegrationConfig = Integrations{}

// GetOTLPEndpoint returns the collector endpoint, tracing is disabled when empty
func (i Integrations) GetOTLPEndpoint() string {
	return i.OTLPEndpoint
}

// GetNatsURL returns the NATS server URL, alerts are only logged when empty
func (i Integrations) GetNatsURL() string {
	return i.NatsURL
}

func (i Integrations) GetNatsAlertSubject() string {
	return i.NatsAlertSubject
}
