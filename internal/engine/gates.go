package engine

import "dailyquest/internal/storage"

// checkUnlocked gates task interaction on the daily lock.
func checkUnlocked(s storage.Session) error {
	if s.Locked {
		return LockedError{Day: s.LastVisitDate}
	}
	return nil
}

// needsReset reports whether today is a new day for the session.
func needsReset(s storage.Session, today string) bool {
	return s.LastVisitDate != today
}

// staleSession reports whether a started session belongs to an earlier day.
// A user who never started a session is not stale.
func staleSession(s storage.Session, today string) bool {
	return s.LastVisitDate != "" && s.LastVisitDate != today
}
