package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/distribution"
	"github.com/redixstudio/atelier/internal/project"
)

type projectResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	ClientName    string                `json:"client_name,omitempty"`
	TotalPrice    float64               `json:"total_price"`
	AmountPaid    float64               `json:"amount_paid"`
	PaymentStatus project.PaymentStatus `json:"payment_status"`
	ProjectStatus project.Status        `json:"project_status"`
	Distribution  distribution.Split    `json:"distribution"`
	ToolsUsage    []project.ToolUsage   `json:"tools_usage"`
	TeamShares    []project.TeamShare   `json:"team_shares"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     *time.Time            `json:"updated_at,omitempty"`
}

func toResponse(p *project.Project) projectResponse {
	resp := projectResponse{
		ID:            p.ID,
		Name:          p.Name,
		ClientName:    p.ClientName,
		TotalPrice:    p.TotalPrice,
		AmountPaid:    p.AmountPaid,
		PaymentStatus: p.PaymentStatus,
		ProjectStatus: p.ProjectStatus,
		Distribution:  p.Distribution,
		ToolsUsage:    p.ToolsUsage,
		TeamShares:    p.TeamShares,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if resp.ToolsUsage == nil {
		resp.ToolsUsage = []project.ToolUsage{}
	}

	if resp.TeamShares == nil {
		resp.TeamShares = []project.TeamShare{}
	}

	return resp
}

func toResponseList(projects []*project.Project) []projectResponse {
	resp := make([]projectResponse, len(projects))
	for i, p := range projects {
		resp[i] = toResponse(p)
	}

	return resp
}
