package dto

import "github.com/atendesk/helpdesk/internal/domain"

// SectorRequest payload.
type SectorRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SectorResponse payload.
type SectorResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SubjectRequest payload.
type SubjectRequest struct {
	Name      string  `json:"name"`
	SectorIDs []int64 `json:"sector_ids"`
}

// SubjectResponse payload.
type SubjectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StatusRequest payload.
type StatusRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
}

// StatusResponse payload.
type StatusResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
}

// PriorityRequest payload.
type PriorityRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PriorityResponse payload.
type PriorityResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NewSectorResponse maps a domain sector.
func NewSectorResponse(s *domain.Sector) SectorResponse {
	return SectorResponse{ID: s.ID, Name: s.Name, Color: s.Color}
}

// NewSectorResponses maps a slice of sectors.
func NewSectorResponses(sectors []domain.Sector) []SectorResponse {
	items := make([]SectorResponse, 0, len(sectors))
	for i := range sectors {
		items = append(items, NewSectorResponse(&sectors[i]))
	}
	return items
}

// NewSubjectResponse maps a domain subject.
func NewSubjectResponse(s *domain.Subject) SubjectResponse {
	return SubjectResponse{ID: s.ID, Name: s.Name}
}

// NewSubjectResponses maps a slice of subjects.
func NewSubjectResponses(subjects []domain.Subject) []SubjectResponse {
	items := make([]SubjectResponse, 0, len(subjects))
	for i := range subjects {
		items = append(items, NewSubjectResponse(&subjects[i]))
	}
	return items
}

// NewStatusResponse maps a domain status.
func NewStatusResponse(s *domain.Status) StatusResponse {
	return StatusResponse{ID: s.ID, Name: s.Name, Symbol: s.Symbol, Kind: string(s.Kind)}
}

// NewStatusResponses maps a slice of statuses.
func NewStatusResponses(statuses []domain.Status) []StatusResponse {
	items := make([]StatusResponse, 0, len(statuses))
	for i := range statuses {
		items = append(items, NewStatusResponse(&statuses[i]))
	}
	return items
}

// NewPriorityResponse maps a domain priority.
func NewPriorityResponse(p *domain.Priority) PriorityResponse {
	return PriorityResponse{ID: p.ID, Name: p.Name, Color: p.Color}
}

// NewPriorityResponses maps a slice of priorities.
func NewPriorityResponses(priorities []domain.Priority) []PriorityResponse {
	items := make([]PriorityResponse, 0, len(priorities))
	for i := range priorities {
		items = append(items, NewPriorityResponse(&priorities[i]))
	}
	return items
}
