package admin

import (
	"strings"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/errorx"
)

// activityForm is the editable part of an activity.
type activityForm struct {
	Name        string
	Description string
	Location    string
	Date        int64
	Capacity    int
}

func (f activityForm) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errorx.ErrInvalidParams(logic.ErrMsgNameEmpty)
	}
	if f.Date <= 0 {
		return errorx.ErrInvalidParams(logic.ErrMsgDateInvalid)
	}
	if f.Capacity < 0 {
		return errorx.ErrInvalidParams(logic.ErrMsgCapacityInvalid)
	}
	return nil
}

func (f activityForm) toActivity(id uint64) *registration.Activity {
	return &registration.Activity{
		ID:          id,
		Name:        strings.TrimSpace(f.Name),
		Description: f.Description,
		Location:    strings.TrimSpace(f.Location),
		Date:        time.Unix(f.Date, 0),
		Capacity:    f.Capacity,
	}
}
