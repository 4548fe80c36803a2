package uow

import "strconv"

func ScopeKey(scopeID int64) string {
	return "scope:" + strconv.FormatInt(scopeID, 10)
}

func SeasonMembershipsKey(seasonID int64) string {
	return "memberships:season:" + strconv.FormatInt(seasonID, 10)
}
