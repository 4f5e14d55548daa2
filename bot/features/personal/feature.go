package personal

import (
	"context"
	"time"

	"botoclock/bot/common"
	"botoclock/domain/interfaces"
	"botoclock/domain/utils"
)

// Feature handles personal timezones
type Feature struct {
	timezoneService interfaces.PersonalTimezoneService
	now             func() time.Time
}

// NewFeature creates a new personal timezone feature
func NewFeature(timezoneService interfaces.PersonalTimezoneService) *Feature {
	return &Feature{
		timezoneService: timezoneService,
		now:             time.Now,
	}
}

// Commands returns the text commands this feature serves
func (f *Feature) Commands() []common.Command {
	return []common.Command{
		{Name: "personal", Handler: f.HandlePersonal},
		{Name: "check", Handler: f.HandleCheck},
	}
}

// HandlePersonal stores the caller's timezone: personal <timezone>
func (f *Feature) HandlePersonal(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
	loc, err := f.timezoneService.SetTimezone(ctx, inv.AuthorID, inv.Arg(0))
	if err != nil {
		return nil, err
	}

	return common.TextReply("✅ Your timezone is now **%s**. It's %s for you.",
		loc.String(), utils.RenderAt(loc, utils.CheckTemplate, f.now())), nil
}

// HandleCheck shows the time for exactly one mentioned user: check <@user>
func (f *Feature) HandleCheck(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
	if len(inv.MentionIDs) != 1 {
		return nil, common.NewUserError("❌ Mention exactly one user to check their time.", "check needs one mention")
	}

	loc, err := f.timezoneService.GetTimezone(ctx, inv.MentionIDs[0])
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return common.TextReply("That user hasn't set a timezone yet. They can do so with `personal <timezone>`."), nil
	}

	return common.TextReply("🕒 It's %s for them.", utils.RenderAt(loc, utils.CheckTemplate, f.now())), nil
}
