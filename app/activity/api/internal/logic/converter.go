// Package logic converts between registration core types and API types.
package logic

import (
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"
)

// ==================== Activity ====================

func ToActivityInfo(a *registration.Activity) types.ActivityInfo {
	if a == nil {
		return types.ActivityInfo{}
	}
	return types.ActivityInfo{
		Id:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Location:    a.Location,
		Date:        a.Date.Unix(),
		Capacity:    a.Capacity,
	}
}

func ToActivityInfos(list []registration.Activity) []types.ActivityInfo {
	result := make([]types.ActivityInfo, 0, len(list))
	for i := range list {
		result = append(result, ToActivityInfo(&list[i]))
	}
	return result
}

// ==================== Attendee ====================

func ToAttendeeInfos(views []registration.AttendeeView) []types.AttendeeInfo {
	result := make([]types.AttendeeInfo, 0, len(views))
	for _, v := range views {
		result = append(result, types.AttendeeInfo{
			Anonymous:    v.Anonymous,
			DisplayName:  v.DisplayName,
			Village:      v.Village,
			Neighborhood: v.Neighborhood,
			RegisteredAt: v.RegisteredAt.Unix(),
		})
	}
	return result
}
