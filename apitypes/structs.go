package apitypes

import (
	"fmt"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// CatalogEntry is one row of the binding catalog. Index doubles as the
// logical input whose factory default it is.
type CatalogEntry struct {
	Index int    `json:"index"`
	Input string `json:"input"`
	Key   uint64 `json:"key"`
	Label string `json:"label"`
}

type CatalogResponse struct {
	Platform string         `json:"platform"`
	Entries  []CatalogEntry `json:"entries"`
}

type Pad struct {
	Port      int    `json:"port"`
	Connected bool   `json:"connected"`
	DpadMode  string `json:"dpadMode"`
	Snapshot  uint64 `json:"snapshot"`
}

type PadListResponse struct {
	Connected int   `json:"connected"`
	Pads      []Pad `json:"pads"`
}

type PadBind struct {
	Input        string `json:"input"`
	Key          uint64 `json:"key"`
	Label        string `json:"label"`
	Default      uint64 `json:"default"`
	DefaultLabel string `json:"defaultLabel"`
	Pressed      bool   `json:"pressed"`
}

type PadBindsResponse struct {
	Port     int       `json:"port"`
	DpadMode string    `json:"dpadMode"`
	Binds    []PadBind `json:"binds"`
}

type PadBindResponse struct {
	Port int     `json:"port"`
	Bind PadBind `json:"bind"`
}

type HotkeysResponse struct {
	Lifecycle uint64   `json:"lifecycle"`
	Pressed   []string `json:"pressed"`
}

// StreamAttachResponse is the single line a pad stream receives once its
// port is claimed. Raw frames follow from the client side only.
type StreamAttachResponse struct {
	Port int `json:"port"`
}
