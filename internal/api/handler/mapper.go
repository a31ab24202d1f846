package handler

import "github.com/sp23/transit-system/internal/core/domain"

func toUserResponse(u *domain.User) userResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return userResponse{ID: u.ID, UserName: u.UserName, Roles: roles}
}

func toStationResponse(s *domain.Station) stationResponse {
	return stationResponse{ID: s.ID, Name: s.Name, Address: s.Address, ManagerID: s.ManagerID}
}

func toStationListResponse(stations []domain.Station) []stationResponse {
	out := make([]stationResponse, 0, len(stations))
	for i := range stations {
		out = append(out, toStationResponse(&stations[i]))
	}
	return out
}

func (r stationRequest) toInput() domain.StationInput {
	return domain.StationInput{Name: r.Name, Address: r.Address, ManagerID: r.ManagerID}
}

func (r createUserRequest) toInput() domain.NewUserInput {
	return domain.NewUserInput{UserName: r.UserName, Password: r.Password, Roles: r.Roles}
}
