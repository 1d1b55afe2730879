package entity

import "time"

// Workflow stage identifiers, the fixed 8-stage enumeration in workflow
// order.
const (
	StageScopeDefinition      = "scope-definition"
	StageShopDrawingCreation  = "shop-drawing-creation"
	StageShopDrawingApproval  = "shop-drawing-approval"
	StageMaterialSpecCreation = "material-spec-creation"
	StageMaterialSpecApproval = "material-spec-approval"
	StageProductionReady      = "production-ready"
	StageProduction           = "production"
	StageInstallation         = "installation"
)

// Stage derived status values.
const (
	StagePending    = "pending"
	StageInProgress = "in-progress"
	StageCompleted  = "completed"
)

// WorkflowStage is a derived, never-persisted timeline projection of one
// workflow step for a scope item.
type WorkflowStage struct {
	StageID   string    `json:"stage_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Duration  int       `json:"duration_days"`
	Progress  int       `json:"progress"`
	Status    string    `json:"status"`
}

// DeriveStageStatus maps a progress percentage to the stage status.
func DeriveStageStatus(progress int) string {
	switch {
	case progress >= 100:
		return StageCompleted
	case progress > 0:
		return StageInProgress
	default:
		return StagePending
	}
}
