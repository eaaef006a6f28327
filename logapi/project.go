package logapi

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Project statuses reported by the service.
const (
	ProjectStatusNormal   = "Normal"
	ProjectStatusDisabled = "Disable"
)

// Project is the document returned by GET / on a project host.
type Project struct {
	Name            string `json:"projectName"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	Owner           string `json:"owner"`
	Region          string `json:"region"`
	ResourceGroupID string `json:"resourceGroupId,omitempty"`
	CreateTime      string `json:"createTime,omitempty"`
	LastModifyTime  string `json:"lastModifyTime,omitempty"`
}

// CreateProjectRequest is the body of POST / on the service endpoint.
type CreateProjectRequest struct {
	Name            string `json:"projectName"`
	Description     string `json:"description"`
	ResourceGroupID string `json:"resourceGroupId,omitempty"`
}

// LogStore describes one logstore of a project.
type LogStore struct {
	Name       string `json:"logstoreName"`
	TTL        int    `json:"ttl"`
	ShardCount int    `json:"shardCount"`
}

// ListLogStoresResponse is returned by GET /logstores.
type ListLogStoresResponse struct {
	Count     int      `json:"count"`
	Total     int      `json:"total"`
	LogStores []string `json:"logstores"`
}

// ListProjectsResponse is returned by GET / on the service endpoint.
type ListProjectsResponse struct {
	Count    int       `json:"count"`
	Total    int       `json:"total"`
	Projects []Project `json:"projects"`
}

// DecodeProject parses a project document.
func DecodeProject(body []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	return &p, nil
}

// DecodeLogStores parses a logstore listing.
func DecodeLogStores(body []byte) (*ListLogStoresResponse, error) {
	var resp ListLogStoresResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode logstores: %w", err)
	}
	return &resp, nil
}

// Decode parses body into v.
func Decode(body []byte, v any) error {
	return json.Unmarshal(body, v)
}

// Encode marshals v as a request or response body.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
