package clocks

import (
	"botoclock/bot/common"
	"botoclock/domain/interfaces"
)

// Feature handles the clock creation and deletion commands
type Feature struct {
	clockService   interfaces.ClockService
	reconciliation interfaces.ReconciliationService
}

// NewFeature creates a new clocks feature
func NewFeature(clockService interfaces.ClockService, reconciliation interfaces.ReconciliationService) *Feature {
	return &Feature{
		clockService:   clockService,
		reconciliation: reconciliation,
	}
}

// Commands returns the text commands this feature serves
func (f *Feature) Commands() []common.Command {
	return []common.Command{
		{Name: "new", RequiresManage: true, Handler: f.HandleNew},
		{Name: "space", RequiresManage: true, Handler: f.HandleSpace},
		{Name: "delete", RequiresManage: true, Handler: f.HandleDelete},
		{Name: "list", Aliases: []string{"clocks"}, Handler: f.HandleList},
	}
}
