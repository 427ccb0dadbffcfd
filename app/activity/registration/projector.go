package registration

// Project turns a registration and the registrant's current profile into the
// view shown to other people. It is total and has no side effects.
//
// Anonymous participants are reduced to village and neighborhood, whoever
// asks: other residents, administrators and the registrant alike.
func Project(record Record, user User) AttendeeView {
	view := AttendeeView{
		Anonymous:    user.AnonymousParticipation,
		Village:      user.Village,
		Neighborhood: user.Neighborhood,
		RegisteredAt: record.RegisteredAt,
	}
	if !user.AnonymousParticipation {
		view.DisplayName = user.DisplayName
	}
	return view
}

// ProjectAll projects records in order, skipping records whose user is
// missing from users.
func ProjectAll(records []Record, users map[int64]*User) []AttendeeView {
	views := make([]AttendeeView, 0, len(records))
	for _, rec := range records {
		u, ok := users[rec.UserID]
		if !ok || u == nil {
			continue
		}
		views = append(views, Project(rec, *u))
	}
	return views
}
