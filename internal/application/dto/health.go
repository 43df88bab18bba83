package dto

import "time"

type GetHealthCommand struct {
	Now time.Time
}

type HealthOutput struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type GetOpenAPISpecQuery struct{}

type OpenAPISpecOutput struct {
	Content     []byte
	ContentType string
}
