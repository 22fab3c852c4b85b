package health

import "time"

const (
	serviceName    = "adcraft"
	serviceVersion = "1.0.0"
)

var startedAt = time.Now()

type Response struct {
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	Version       string    `json:"version,omitempty"`
	Time          time.Time `json:"time"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

type PingResponse struct {
	Message string `json:"message"`
}
