package domain

import "time"

// MonthlyRosterEntry: a enfermeira NurseID está lotada na seção SectionID no mês Month/Year.
// Existe no máximo uma por (NurseID, Month, Year).
type MonthlyRosterEntry struct {
	ID        int64     `json:"id"`
	NurseID   int64     `json:"nurseID"`
	SectionID int64     `json:"sectionID"`
	UnitID    *int64    `json:"unitID"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
}

type RosterCopyResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}
