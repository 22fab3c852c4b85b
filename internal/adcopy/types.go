package adcopy

import "time"

// one tone-specific piece of ad copy
type Variant struct {
	Tone                 string `json:"tone"`
	Headline             string `json:"headline"`
	Description          string `json:"description"`
	PrimaryTextParagraph string `json:"primaryTextParagraph"`
	PrimaryTextBullets   string `json:"primaryTextBullets"`
}

type Result struct {
	Variants    []Variant `json:"variants"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

type Config struct {
	Timeout       time.Duration
	MaxConcurrent int64
}

const (
	DefaultTimeout       = 90 * time.Second
	DefaultMaxConcurrent = 8
)
