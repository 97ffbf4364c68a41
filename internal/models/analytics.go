package models

// ProjectCost holds the fields needed to derive cost per hour.
type ProjectCost struct {
	Budget float64 `db:"budget"`
	Hours  int     `db:"hours"`
}

// ProjectWindow holds the date range needed to derive project status.
type ProjectWindow struct {
	StartDate Date  `db:"start_date"`
	EndDate   *Date `db:"end_date"`
}
