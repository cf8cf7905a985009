package handlers

import (
	"video-convert/internal/ffmpeg"
	"video-convert/internal/startup"
)

// Handlers contains all HTTP handlers and their dependencies
type Handlers struct {
	converter *ffmpeg.Converter
	config    *startup.Config
}

// New creates a new Handlers instance
func New(converter *ffmpeg.Converter, config *startup.Config) *Handlers {
	return &Handlers{
		converter: converter,
		config:    config,
	}
}
